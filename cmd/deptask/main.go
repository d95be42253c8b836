package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/opsboard/deptask/internal/config"
	"github.com/opsboard/deptask/internal/database"
	"github.com/opsboard/deptask/internal/domain"
	"github.com/opsboard/deptask/internal/handler"
	"github.com/opsboard/deptask/internal/logger"
	"github.com/opsboard/deptask/internal/repository"
	"github.com/opsboard/deptask/internal/service"
	"github.com/urfave/cli/v2"
)

func main() {
	// Missing .env is fine; flags and real environment take over.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "deptask",
		Usage: "Department task coordination service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:     "database-url",
				Aliases:  []string{"d"},
				Value:    config.DefaultDatabaseURL,
				Usage:    "PostgreSQL database URL",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "jwt-secret",
				Usage:    "HMAC secret for session tokens",
				EnvVars:  []string{"JWT_SECRET"},
				Required: true,
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
				},
				Action: runServe,
			},
			{
				Name:  "create-user",
				Usage: "Provision a user account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true, Usage: "Display name"},
					&cli.StringFlag{Name: "email", Required: true, Usage: "Login email"},
					&cli.StringFlag{Name: "password", Required: true, Usage: "Initial password"},
					&cli.StringFlag{Name: "role", Value: "EMPLOYEE", Usage: "Role (EMPLOYEE, HOD, DIRECTOR)"},
					&cli.StringFlag{Name: "department", Usage: "Department name (required for non-Director roles)"},
				},
				Action: runCreateUser,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}
	databaseURL := c.String("database-url")

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	h := handler.New(db.Pool(), []byte(c.String("jwt-secret")))

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func runCreateUser(c *cli.Context) error {
	ctx := c.Context

	db, err := database.New(ctx, c.String("database-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	userRepo := repository.NewUserRepository(db.Pool())
	authService := service.NewAuthService(userRepo, []byte(c.String("jwt-secret")))

	user, err := authService.CreateUser(ctx, service.CreateUserParams{
		Name:       c.String("name"),
		Email:      c.String("email"),
		Password:   c.String("password"),
		Role:       domain.Role(c.String("role")),
		Department: c.String("department"),
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("created user %s (%s, %s)\n", user.Email, user.Role, user.ID)
	return nil
}
