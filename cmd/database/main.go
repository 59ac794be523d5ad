package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/yerkebulan111/movie-land-platform/internal/config"
	"github.com/yerkebulan111/movie-land-platform/internal/logx"
	"github.com/yerkebulan111/movie-land-platform/internal/mongodb"
	"github.com/yerkebulan111/movie-land-platform/internal/services/users"
	"github.com/yerkebulan111/movie-land-platform/internal/validation"
	"go.uber.org/zap"
)

func main() {
	indexes := flag.Bool("indexes", false, "create indexes in the database if they do not exist")
	resetIndexes := flag.Bool("reset", false, "Delete the indexes and recreate it")
	deleteIndexes := flag.Bool("delete", false, "Delete the indexes")
	superuser := flag.Bool("superuser", false, "create an admin user if it does not exist")

	flag.Parse()

	cfg := config.Load()
	if cfg.MongoURI == "" {
		log.Fatal(config.ErrMissingMongoURI)
	}

	logger, err := logx.New(cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx := logx.WithLogger(context.Background(), logger)
	dbClient, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	db := mongodb.NewDB(dbClient, cfg.MongoDatabase)
	defer db.Close(ctx)

	switch {
	case *indexes:
		if *deleteIndexes {
			if err := db.DeleteAllIndexes(ctx); err != nil {
				logger.Fatal("failed to delete indexes", zap.Error(err))
			}
			fmt.Println("✅ All indexes deleted successfully!")
			return
		}

		if err := db.CreateAllIndexes(ctx, *resetIndexes); err != nil {
			logger.Fatal("failed to create indexes", zap.Error(err))
		}
		fmt.Println("✅ indexes command ran successfully!")

	case *superuser:
		if err := createSuperuser(ctx, db); err != nil {
			logger.Fatal("failed to create superuser", zap.Error(err))
		}
		fmt.Println("✅ Superuser command ran successfully!")

	default:
		fmt.Println("No valid command specified.")
		flag.Usage()
	}
}

// createSuperuser reads SUPERUSER_* variables and creates an admin account.
// An existing account with the same email is left untouched.
func createSuperuser(ctx context.Context, db *mongodb.DB) error {
	req := users.RegisterRequest{
		Username: strings.TrimSpace(os.Getenv("SUPERUSER_USERNAME")),
		Email:    strings.TrimSpace(os.Getenv("SUPERUSER_EMAIL")),
		Password: os.Getenv("SUPERUSER_PASSWORD"),
	}
	if req.Username == "" {
		req.Username = "admin"
	}
	if req.Email == "" {
		req.Email = "admin@movieland.local"
	}

	if fieldErrors := validation.Struct(req); len(fieldErrors) > 0 {
		return fmt.Errorf("invalid superuser: %s", fieldErrors[0].Message)
	}

	_, err := users.CreateUserWithRole(db, ctx, req, mongodb.RoleAdmin)
	if errors.Is(err, users.ErrUserAlreadyExists) {
		fmt.Printf("ℹ️  User '%s' or email '%s' already exists, skipping creation\n", req.Username, req.Email)
		return nil
	}
	return err
}
