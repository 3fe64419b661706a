package main

import (
	"context"
	"fmt"
	"os"

	dbfs "github.com/garnizeh/benchwise/db"
	"github.com/garnizeh/benchwise/internal/config"
	"github.com/garnizeh/benchwise/internal/db"
	"github.com/garnizeh/benchwise/internal/repository/sqlite"
	"github.com/garnizeh/benchwise/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	database, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	// run migrations and seed using internal/db.Migrate
	if err := db.Migrate(ctx, database, dbfs.Migrations, dbfs.SeedFiles); err != nil {
		fmt.Fprintf(os.Stderr, "Migration runner error: %v\n", err)
		os.Exit(1)
	}

	// create the initial admin account when configured and missing
	email := os.Getenv("BENCHWISE_ADMIN_EMAIL")
	password := os.Getenv("BENCHWISE_ADMIN_PASSWORD")
	if email != "" && password != "" {
		repo := sqlite.New(database, nil)
		existing, err := repo.GetByEmail(ctx, email)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Admin lookup error: %v\n", err)
			os.Exit(1)
		}
		if existing == nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Admin password error: %v\n", err)
				os.Exit(1)
			}
			if _, err := repo.CreateConsultant(ctx, &models.Consultant{
				Name:         "Administrator",
				Email:        email,
				PasswordHash: string(hash),
				Role:         models.RoleAdmin,
				Department:   models.DeptTechnology,
				Status:       models.StatusOnBench,
				ResumeStatus: models.ResumePending,
				Training:     models.TrainingNotStarted,
			}); err != nil {
				fmt.Fprintf(os.Stderr, "Admin create error: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Admin account created.")
		}
	}

	fmt.Println("Database initialized successfully.")
}
