package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"english_hub/internal/config"
	"english_hub/internal/model"
	"english_hub/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// スキーマのマイグレーションと初期管理者の作成を行うコマンドです。
//
//	go run ./cmd/migrate -seed-admin admin@example.com -seed-password secret123
func main() {
	seedAdminEmail := flag.String("seed-admin", "", "create an admin user with this email if it does not exist")
	seedAdminPassword := flag.String("seed-password", "", "password for the seeded admin user")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := config.LoadConfig("./configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("Running schema migration...")
	err = db.AutoMigrate(
		&model.User{},
		&model.Topic{},
		&model.Flashcard{},
		&model.GrammarLesson{},
		&model.Question{},
		&model.QuizAttempt{},
		&model.QuizAttemptAnswer{},
		&model.UserProgress{},
		&model.SpeakingPractice{},
	)
	if err != nil {
		slog.Error("Migration failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Schema migration completed")

	if *seedAdminEmail == "" {
		return
	}
	if *seedAdminPassword == "" {
		log.Fatal("-seed-password is required when -seed-admin is specified")
	}

	var count int64
	if err := db.Model(&model.User{}).Where("email = ?", *seedAdminEmail).Count(&count).Error; err != nil {
		slog.Error("Failed to check existing admin", slog.Any("error", err))
		os.Exit(1)
	}
	if count > 0 {
		slog.Info("Admin user already exists, skipping seed", slog.String("email", *seedAdminEmail))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*seedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("Failed to hash admin password", slog.Any("error", err))
		os.Exit(1)
	}

	admin := &model.User{
		UserID:       uuid.New(),
		Email:        *seedAdminEmail,
		DisplayName:  "Administrator",
		PasswordHash: string(hashedPassword),
		Role:         model.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		slog.Error("Failed to create admin user", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Admin user seeded", slog.String("email", *seedAdminEmail), slog.String("user_id", admin.UserID.String()))
}
