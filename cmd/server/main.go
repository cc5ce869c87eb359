package main

import (
	"log"

	"classroom-poll-backend/internal/config"
	"classroom-poll-backend/internal/database"
	"classroom-poll-backend/internal/handlers"
	"classroom-poll-backend/internal/middleware"
	"classroom-poll-backend/internal/services"
	"classroom-poll-backend/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	hub := ws.NewHub()

	authService := services.NewAuthService(db, cfg.JWTSecret)
	pollService := services.NewPollService(db)
	lobbyService := services.NewLobbyService(db)
	voteService := services.NewVoteService(db)
	submissionService := services.NewSubmissionService(db)
	statsService := services.NewStatsService(db)

	authHandler := handlers.NewAuthHandler(authService)
	pollHandler := handlers.NewPollHandler(pollService, hub)
	lobbyHandler := handlers.NewLobbyHandler(lobbyService, pollService, hub)
	participantHandler := handlers.NewParticipantHandler(lobbyService, voteService, submissionService)
	statsHandler := handlers.NewStatsHandler(statsService, submissionService, pollService, hub)
	wsHandler := handlers.NewWSHandler(hub, authService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/ws", wsHandler.HandleWebSocket)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		polls := api.Group("/polls")
		polls.Use(middleware.JWTAuth(authService))
		{
			lecturer := polls.Group("")
			lecturer.Use(middleware.LecturerOnly())
			{
				lecturer.GET("", pollHandler.ListPolls)
				lecturer.POST("", pollHandler.CreatePoll)
				lecturer.GET("/:id", pollHandler.GetPoll)
				lecturer.PUT("/:id", pollHandler.UpdatePoll)
				lecturer.DELETE("/:id", pollHandler.DeletePoll)
				lecturer.POST("/:id/status", pollHandler.SetStatus)
				lecturer.GET("/:id/lobby", lobbyHandler.ListLobby)
				lecturer.DELETE("/:id/lobby/:studentNumber", lobbyHandler.Kick)
				lecturer.GET("/:id/stats", statsHandler.GetStats)
				lecturer.GET("/:id/export", statsHandler.ExportCSV)
			}

			polls.POST("/:id/choice", participantHandler.Choice)
			polls.POST("/:id/submit", participantHandler.Submit)
		}

		api.POST("/join", middleware.JWTAuth(authService), participantHandler.Join)
		api.GET("/students/:studentNumber/history", middleware.JWTAuth(authService), statsHandler.GetStudentHistory)
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
