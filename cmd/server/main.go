package main

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/Fork0n/open-hoot/internal/config"
	"github.com/Fork0n/open-hoot/internal/database"
	"github.com/Fork0n/open-hoot/internal/handlers"
	"github.com/Fork0n/open-hoot/internal/services"
	"github.com/Fork0n/open-hoot/internal/store"
	"github.com/Fork0n/open-hoot/internal/ws"
)

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: slog.LevelInfo})))

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}

	cfg := config.Load()

	var sessionStore store.SessionStore
	switch cfg.StoreBackend {
	case "memory":
		slog.Info("using in-memory session store")
		sessionStore = store.NewMemoryStore()
	default:
		db := database.Connect(cfg)
		database.AutoMigrate(db)
		sessionStore = store.NewPostgresStore(db)
	}

	playerLimit, err := strconv.Atoi(cfg.PlayerLimit)
	if err != nil || playerLimit < 0 {
		playerLimit = 0
	}

	hub := ws.NewHub()

	scoringService := services.NewScoringService()
	quizFetcher := services.NewQuizFetcher(cfg.QuizBaseURL)
	sessionService := services.NewSessionService(sessionStore, scoringService, quizFetcher, playerLimit)
	sessionService.OnUpdate(func(code string, view *services.SessionView) {
		hub.Broadcast(code, ws.WSMessage{Type: "session_update", Data: view})
	})

	sessionHandler := handlers.NewSessionHandler(sessionService)
	playHandler := handlers.NewPlayHandler(sessionService)
	wsHandler := handlers.NewWSHandler(hub)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/ws/session/:code", wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		sessions := api.Group("/sessions")
		{
			sessions.POST("", sessionHandler.CreateSession)
			sessions.GET("/:code", sessionHandler.GetSession)
			sessions.POST("/:code/quiz", sessionHandler.SetQuiz)
			sessions.POST("/:code/start", sessionHandler.StartSession)
			sessions.POST("/:code/next", sessionHandler.NextQuestion)
			sessions.POST("/:code/finish", sessionHandler.FinishSession)
			sessions.GET("/:code/leaderboard", sessionHandler.GetLeaderboard)
		}

		play := api.Group("/play")
		{
			play.POST("/join", playHandler.Join)
			play.POST("/answer", playHandler.Answer)
			play.GET("/state", playHandler.GetState)
		}
	}

	slog.Info("server starting", "port", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}
