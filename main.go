package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/bryan-buckman/linkpage/internal/auth"
	"github.com/bryan-buckman/linkpage/internal/config"
	"github.com/bryan-buckman/linkpage/internal/database"
	"github.com/bryan-buckman/linkpage/internal/logging"
	"github.com/bryan-buckman/linkpage/internal/model"
	"github.com/bryan-buckman/linkpage/internal/server"
	"github.com/bryan-buckman/linkpage/internal/site"
)

func main() {
	root := &cli.Command{
		Name:  "linkpage",
		Usage: "Personal link directory server",
		Commands: []*cli.Command{
			serveCommand(),
			hashPasswordCommand(),
			issueTokenCommand(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runServe(ctx, os.Getenv("LINKPAGE_CONFIG"), "", "", "")
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to YAML config file",
		Sources: cli.EnvVars("LINKPAGE_CONFIG"),
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{Name: "addr", Usage: "HTTP listen address (overrides server.addr)"},
			&cli.StringFlag{Name: "db-driver", Usage: "sqlite, postgres or memory (overrides database.driver)"},
			&cli.StringFlag{Name: "db", Usage: "SQLite path or PostgreSQL DSN"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runServe(ctx, c.String("config"), c.String("addr"), c.String("db-driver"), c.String("db"))
		},
	}
}

func runServe(ctx context.Context, configPath, addr, driver, dsn string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if driver != "" {
		cfg.Database.Driver = driver
	}
	if dsn != "" {
		if cfg.Database.Driver == "postgres" {
			cfg.Database.DSN = dsn
		} else {
			cfg.Database.Path = dsn
		}
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbDSN := cfg.Database.Path
	if cfg.Database.Driver == "postgres" {
		dbDSN = cfg.Database.DSN
	}
	store, err := database.Open(ctx, cfg.Database.Driver, dbDSN)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	tokens, err := auth.NewTokens([]byte(cfg.Auth.TokenSecret), cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	admins, guests, err := cfg.Auth.Pairs()
	if err != nil {
		return err
	}
	if len(admins) == 0 {
		logger.Warn("no admin credentials configured; the page cannot be edited")
	}

	srv, err := server.New(store, server.Options{
		Tokens:         tokens,
		Credentials:    auth.NewCredentials(admins, guests),
		SiteDefaults:   site.Defaults{Title: cfg.Site.Title, Subtitle: cfg.Site.Subtitle},
		MaxUploadBytes: cfg.Site.MaxUploadBytes,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	return srv.Run(ctx, cfg.Server.Addr)
}

func hashPasswordCommand() *cli.Command {
	return &cli.Command{
		Name:      "hash-password",
		Usage:     "Print a bcrypt hash for use in auth.admins / auth.guests",
		ArgsUsage: "<password>",
		Action: func(ctx context.Context, c *cli.Command) error {
			password := c.Args().First()
			if password == "" {
				return errors.New("password argument is required")
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Println(hash)
			return nil
		},
	}
}

func issueTokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "issue-token",
		Usage: "Issue a token without logging in, for scripts",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{Name: "user", Value: "cli", Usage: "principal recorded in the token"},
			&cli.StringFlag{Name: "role", Value: "admin", Usage: "admin or guest"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			role := model.ParseRole(c.String("role"))
			if role == model.RolePublic {
				return fmt.Errorf("role %q: want admin or guest", c.String("role"))
			}
			tokens, err := auth.NewTokens([]byte(cfg.Auth.TokenSecret), cfg.Auth.TokenTTL)
			if err != nil {
				return err
			}
			token, err := tokens.Issue(c.String("user"), role)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
}
