package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Fork0n/open-hoot/internal/models"
	"github.com/Fork0n/open-hoot/internal/services"
)

// SessionHandler exposes the host-side lifecycle operations.
type SessionHandler struct {
	sessions *services.SessionService
}

func NewSessionHandler(sessions *services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type SetQuizRequest struct {
	URL       string            `json:"url,omitempty"`
	Questions []models.Question `json:"questions,omitempty"`
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	code, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"code":         code,
		"display_code": services.FormatCode(code),
	})
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	view, err := h.sessions.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetQuiz accepts either an inline question list or a URL to fetch one from.
func (h *SessionHandler) SetQuiz(c *gin.Context) {
	var req SetQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	code := c.Param("code")
	var err error
	switch {
	case req.URL != "":
		err = h.sessions.SetQuizFromURL(c.Request.Context(), code, req.URL)
	case len(req.Questions) > 0:
		err = h.sessions.SetQuiz(c.Request.Context(), code, req.Questions)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "either url or questions is required"})
		return
	}
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "quiz set"})
}

func (h *SessionHandler) StartSession(c *gin.Context) {
	if err := h.sessions.Start(c.Request.Context(), c.Param("code")); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "session started"})
}

func (h *SessionHandler) NextQuestion(c *gin.Context) {
	if err := h.sessions.Advance(c.Request.Context(), c.Param("code")); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "advanced"})
}

func (h *SessionHandler) FinishSession(c *gin.Context) {
	if err := h.sessions.End(c.Request.Context(), c.Param("code")); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "session ended"})
}

func (h *SessionHandler) GetLeaderboard(c *gin.Context) {
	entries, err := h.sessions.GetLeaderboard(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
