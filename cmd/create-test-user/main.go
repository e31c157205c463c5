package main

import (
	"context"
	"errors"
	"fmt"

	"legalaid-backend/config"
	"legalaid-backend/database"
	"legalaid-backend/logger"
	"legalaid-backend/repository"
	"legalaid-backend/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to migrate database", "error", err)
	}

	// Create a test user
	email := "test@example.com"
	username := "testuser"
	password := "testpassword123"
	name := "Test User"
	location := "Mumbai"

	auth := service.NewAuthService(repository.NewUserRepository(db.DB), cfg.JWTSecretKey, cfg.AccessTokenTTL, service.AuthWithLogger(log))
	res, err := auth.Signup(ctx, service.SignupRequest{
		Email:    email,
		Username: username,
		FullName: name,
		Password: password,
		Location: &location,
	})
	if errors.Is(err, service.ErrUserExists) {
		log.Info("Test user already exists", "email", email, "username", username)
		return
	}
	if err != nil {
		log.Fatal("Failed to create user", "error", err)
	}

	fmt.Printf("✅ Test user created successfully!\n")
	fmt.Printf("   ID: %s\n", res.User.ID)
	fmt.Printf("   Email: %s\n", email)
	fmt.Printf("   Username: %s\n", username)
	fmt.Printf("   Password: %s\n", password)
	fmt.Printf("   Location: %s\n", location)
}
