package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/siteadmin-backend/internal/auth"
	"github.com/angelmondragon/siteadmin-backend/pkg/config"
	"github.com/angelmondragon/siteadmin-backend/pkg/db"
	"github.com/angelmondragon/siteadmin-backend/pkg/logger"
	"github.com/angelmondragon/siteadmin-backend/pkg/security"
)

const generatedPasswordLength = 20

func main() {
	logg := logger.New(logger.Options{ServiceName: "create-admin"})
	_ = godotenv.Load()

	email := flag.String("email", "", "admin email (required)")
	name := flag.String("name", "", "display name")
	password := flag.String("password", os.Getenv("SITEADMIN_ADMIN_PASSWORD"), "password; generated and printed when empty")
	inactive := flag.Bool("inactive", false, "create or update the account as disabled")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "missing -email")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "create-admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	generated := false
	if *password == "" {
		*password, err = security.GeneratePassword(generatedPasswordLength)
		if err != nil {
			logg.Error(context.Background(), "failed to generate password", err)
			os.Exit(1)
		}
		generated = true
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	registrar, err := auth.NewAdminRegistrar(auth.NewRepository(dbClient.DB()), cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create admin registrar", err)
		os.Exit(1)
	}

	ctx := logg.WithField(context.Background(), "email", *email)
	admin, created, err := registrar.Ensure(ctx, auth.EnsureAdminRequest{
		Email:    *email,
		Name:     *name,
		Password: *password,
		Inactive: *inactive,
	})
	if err != nil {
		logg.Error(ctx, "failed to save admin", err)
		os.Exit(1)
	}

	verb := "updated"
	if created {
		verb = "created"
	}
	fmt.Printf("%s admin %s (%s), active=%t\n", verb, admin.Email, admin.ID, admin.IsActive)
	if generated {
		fmt.Printf("generated password: %s\n", *password)
	}
}
