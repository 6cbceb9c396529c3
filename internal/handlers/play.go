package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Fork0n/open-hoot/internal/services"
)

// PlayHandler exposes the player-side operations.
type PlayHandler struct {
	sessions *services.SessionService
}

func NewPlayHandler(sessions *services.SessionService) *PlayHandler {
	return &PlayHandler{sessions: sessions}
}

type PlayJoinRequest struct {
	Code     string `json:"code" binding:"required"`
	PlayerID string `json:"player_id"`
	Nickname string `json:"nickname" binding:"required,min=1,max=100"`
	Avatar   string `json:"avatar"`
}

type PlayAnswerRequest struct {
	Code      string `json:"code" binding:"required"`
	PlayerID  string `json:"player_id" binding:"required"`
	Option    *int   `json:"option" binding:"required"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

func (h *PlayHandler) Join(c *gin.Context) {
	var req PlayJoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	player, view, err := h.sessions.Join(c.Request.Context(), req.Code, req.PlayerID, req.Nickname, req.Avatar)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"player":  player,
		"session": view,
	})
}

func (h *PlayHandler) Answer(c *gin.Context) {
	var req PlayAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	err := h.sessions.SubmitAnswer(c.Request.Context(), req.Code, req.PlayerID, *req.Option, req.ElapsedMs)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "answer recorded"})
}

func (h *PlayHandler) GetState(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "code required"})
		return
	}

	view, err := h.sessions.Get(c.Request.Context(), code)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}
