package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/planora-app/planora/internal/analytics"
	"github.com/planora-app/planora/internal/archive"
	"github.com/planora-app/planora/internal/chat"
	"github.com/planora-app/planora/internal/config"
	"github.com/planora-app/planora/internal/genai"
	"github.com/planora-app/planora/internal/handlers"
	"github.com/planora-app/planora/internal/logger"
	"github.com/planora-app/planora/internal/middleware"
	"github.com/planora-app/planora/internal/quota"
	"github.com/planora-app/planora/internal/repository"
	"github.com/planora-app/planora/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()

	db, err := store.New(ctx, cfg)
	if err != nil {
		log.Fatal("mongo connection failed", zap.Error(err))
	}
	defer db.Close(context.Background())

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal("invalid redis url", zap.Error(err))
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	arch, err := archive.NewService(ctx, cfg)
	if err != nil {
		// Uploads still work without the archive; generation is the product.
		log.Warn("document archive unavailable", zap.Error(err))
		arch = nil
	}

	gen, err := genai.NewClient(ctx, cfg.GeminiKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal("genai client failed", zap.Error(err))
	}

	users := repository.NewUserRepository(db.Users())
	sessions := repository.NewSessionRepository(db.Sessions())
	tasks := repository.NewTaskRepository(db.Tasks())
	prefs := repository.NewPreferenceRepository(db.Preferences())
	stats := repository.NewStatsRepository(db.Stats())

	tracker := quota.NewTracker(users)
	analyticsSvc := analytics.NewService(users, sessions, cfg.Location)
	history := chat.NewHistory(rdb, cfg.ChatHistoryLimit)

	authH := handlers.NewAuthHandler(users, cfg, log)
	onboardingH := handlers.NewOnboardingHandler(users, prefs, log)
	sessionH := handlers.NewSessionHandler(sessions, users, stats, cfg, log)
	taskH := handlers.NewTaskHandler(tasks, cfg, log)
	analyticsH := handlers.NewAnalyticsHandler(analyticsSvc, log)
	insightsH := handlers.NewInsightsHandler(sessions, cfg, log)
	flashcardH := handlers.NewFlashcardHandler(gen, tracker, arch, cfg, log)
	chatH := handlers.NewChatHandler(gen, history, tracker, cfg, log)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/api/v1/auth/signup", authH.Signup)
	router.POST("/api/v1/auth/login", authH.Login)

	api := router.Group("/api/v1", middleware.Auth(cfg))
	{
		api.GET("/me", authH.Me)
		api.POST("/onboarding", onboardingH.Submit)

		api.POST("/sessions", sessionH.Save)
		api.GET("/sessions", sessionH.List)
		api.GET("/sessions/recent", sessionH.Recent)
		api.GET("/sessions/stats", sessionH.Stats)
		api.GET("/sessions/breakdown", sessionH.Breakdown)

		api.POST("/tasks", taskH.Create)
		api.GET("/tasks", taskH.List)
		api.GET("/tasks/top", taskH.Top)
		api.PATCH("/tasks/:id", taskH.Update)
		api.POST("/tasks/:id/toggle", taskH.Toggle)
		api.DELETE("/tasks/:id", taskH.Delete)

		api.GET("/analytics/best-time", analyticsH.BestTime)
		api.GET("/analytics/priority-subject", analyticsH.PrioritySubject)
		api.GET("/analytics/streak", analyticsH.Streak)
		api.GET("/analytics/hourly", analyticsH.Hourly)

		api.GET("/insights/hours-by-subject", insightsH.HoursBySubject)
		api.GET("/insights/progress", insightsH.Progress)
		api.GET("/insights/summary", insightsH.Summary)

		api.POST("/flashcards", flashcardH.Generate)

		api.POST("/chat", chatH.Send)
		api.GET("/chat/history", chatH.History)
		api.DELETE("/chat/history", chatH.Clear)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.Port), zap.String("timezone", cfg.Timezone))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
