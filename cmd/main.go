package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"github.com/rs/cors"

	"english_hub/internal/config"
	"english_hub/internal/handlers"
	"english_hub/internal/middleware"
	"english_hub/internal/repository"
	"english_hub/internal/service"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// 設定ファイル読み込み用の一時的なロガー設定
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)
	log.Println("Log Config Loading...")

	// Configを読み込み
	if err := config.LoadConfig("./configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// === 設定に基づいて slog ロガーを初期化 ===
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(config.Cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", config.Cfg.Log.Level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		tintOpts := &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		}
		handler = tint.NewHandler(os.Stderr, tintOpts)
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}
		handler = slog.NewJSONHandler(os.Stderr, jsonOpts)
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	slog.Info("Application starting...")

	// Initialize Database Connection (GORM)
	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	// Dependency Injection
	userRepo := repository.NewGormUserRepository()
	topicRepo := repository.NewGormTopicRepository()
	flashcardRepo := repository.NewGormFlashcardRepository()
	grammarRepo := repository.NewGormGrammarRepository()
	questionRepo := repository.NewGormQuestionRepository()
	quizRepo := repository.NewGormQuizRepository()
	progressRepo := repository.NewGormProgressRepository()
	speakingRepo := repository.NewGormSpeakingRepository()

	mailer := service.NewMailer(&config.Cfg)
	generator := service.NewGenerator(&config.Cfg)

	authService := service.NewAuthService(db, userRepo, mailer, &config.Cfg)
	userService := service.NewUserService(db, userRepo, mailer)
	topicService := service.NewTopicService(db, topicRepo)
	flashcardService := service.NewFlashcardService(db, flashcardRepo, topicRepo)
	grammarService := service.NewGrammarService(db, grammarRepo)
	questionService := service.NewQuestionService(db, questionRepo, topicRepo, grammarRepo)
	quizService := service.NewQuizService(db, quizRepo, questionRepo, topicRepo, grammarRepo, progressRepo)
	progressService := service.NewProgressService(db, progressRepo, topicRepo, grammarRepo)
	speakingService := service.NewSpeakingService(db, speakingRepo, generator, &config.Cfg)

	authHandler := handlers.NewAuthHandler(authService, logger)
	userHandler := handlers.NewUserHandler(userService, logger)
	topicHandler := handlers.NewTopicHandler(topicService, logger)
	flashcardHandler := handlers.NewFlashcardHandler(flashcardService, logger)
	grammarHandler := handlers.NewGrammarHandler(grammarService, logger)
	questionHandler := handlers.NewQuestionHandler(questionService, logger)
	quizHandler := handlers.NewQuizHandler(quizService, logger)
	progressHandler := handlers.NewProgressHandler(progressService, logger)
	speakingHandler := handlers.NewSpeakingHandler(speakingService, logger)

	// Setup Router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	// CORS 設定と適用 (設定ファイルから読み込んだ値を使用)
	corsOptions := cors.Options{
		AllowedOrigins:   config.Cfg.CORS.AllowedOrigins,
		AllowedMethods:   config.Cfg.CORS.AllowedMethods,
		AllowedHeaders:   config.Cfg.CORS.AllowedHeaders,
		ExposedHeaders:   config.Cfg.CORS.ExposedHeaders,
		AllowCredentials: config.Cfg.CORS.AllowCredentials,
		MaxAge:           config.Cfg.CORS.MaxAge,
		Debug:            false,
	}
	corsHandler := cors.New(corsOptions)
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// API Routes
	r.Route("/api/v1", func(r chi.Router) {
		// --- Public routes ---
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// --- Protected routes (require JWT) ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuthMiddleware(&config.Cfg))

			// User routes
			r.Route("/users", func(r chi.Router) {
				r.Get("/me", userHandler.GetMe)
				r.Put("/me/profile", userHandler.PutProfile)
				r.Put("/me/password", userHandler.PutPassword)

				// 管理者のみ
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/", userHandler.GetUsers)
					r.Get("/{user_id}", userHandler.GetUser)
					r.Put("/{user_id}", userHandler.PutUser)
					r.Delete("/{user_id}", userHandler.DeleteUser)
				})
			})

			// Topic routes
			r.Route("/topics", func(r chi.Router) {
				r.Get("/", topicHandler.GetTopics)
				r.Get("/{topic_id}", topicHandler.GetTopic)
				r.Get("/{topic_id}/flashcards", flashcardHandler.GetFlashcardsByTopic)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", topicHandler.PostTopic)
					r.Put("/{topic_id}", topicHandler.PutTopic)
					r.Delete("/{topic_id}", topicHandler.DeleteTopic)
				})
			})

			// Flashcard routes
			r.Route("/flashcards", func(r chi.Router) {
				r.Get("/{flashcard_id}", flashcardHandler.GetFlashcard)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", flashcardHandler.PostFlashcard)
					r.Put("/{flashcard_id}", flashcardHandler.PutFlashcard)
					r.Delete("/{flashcard_id}", flashcardHandler.DeleteFlashcard)
				})
			})

			// Grammar lesson routes
			r.Route("/grammar", func(r chi.Router) {
				r.Get("/", grammarHandler.GetGrammarLessons)
				r.Get("/{lesson_id}", grammarHandler.GetGrammarLesson)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", grammarHandler.PostGrammarLesson)
					r.Put("/{lesson_id}", grammarHandler.PutGrammarLesson)
					r.Delete("/{lesson_id}", grammarHandler.DeleteGrammarLesson)
				})
			})

			// Question routes
			r.Route("/questions", func(r chi.Router) {
				// 出題取得は一般ユーザーも可
				r.Get("/content/{content_type}/{content_id}", questionHandler.GetQuestionsByContent)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", questionHandler.PostQuestion)
					r.Get("/", questionHandler.GetQuestions)
					r.Get("/{question_id}", questionHandler.GetQuestion)
					r.Put("/{question_id}", questionHandler.PutQuestion)
					r.Delete("/{question_id}", questionHandler.DeleteQuestion)
				})
			})

			// Quiz attempt routes
			r.Route("/quiz", func(r chi.Router) {
				r.Post("/attempts", quizHandler.PostAttempt)
				r.Post("/attempts/{attempt_id}/answers", quizHandler.PostAnswers)
				r.Get("/attempts/{attempt_id}", quizHandler.GetAttempt)
				r.Get("/attempts/{attempt_id}/answers", quizHandler.GetAttemptAnswers)
				r.Get("/history", quizHandler.GetHistory)
			})

			// Progress routes
			r.Route("/progress", func(r chi.Router) {
				r.Get("/", progressHandler.GetProgress)
				r.Get("/stats", progressHandler.GetStats)
			})

			// Speaking practice routes
			r.Route("/speaking", func(r chi.Router) {
				r.Post("/", speakingHandler.PostPractice)
				r.Get("/", speakingHandler.GetHistory)
				r.Get("/{practice_id}", speakingHandler.GetPractice)
			})
		})
	})

	// Health Check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := sqlDB.PingContext(ctx); err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Start Server
	server := &http.Server{
		Addr:         config.Cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}
