// Command yoman-admin creates admin accounts and changes user roles.
//
//	yoman-admin create -email admin@example.com
//	yoman-admin promote -email someone@example.com
//	yoman-admin demote -email someone@example.com
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"golang.org/x/term"

	"github.com/yoman-app/yoman-api/internal/config"
	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/platform/logger"
	"github.com/yoman-app/yoman-api/internal/platform/postgres"
	"github.com/yoman-app/yoman-api/internal/service"
	"github.com/yoman-app/yoman-api/internal/service/auth"
)

var errUsage = errors.New("usage: yoman-admin <create|promote|demote> -email EMAIL")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	users := service.NewUserService(
		postgres.NewPostgresUserStore(db, log),
		auth.NewBcryptHasher(cfg.Auth.BCryptCost),
		db,
		log,
	)
	return execute(ctx, args, users, promptPassword, os.Stdout)
}

// execute runs one admin command against users.
func execute(
	ctx context.Context,
	args []string,
	users service.UserService,
	readPassword func(prompt string) (string, error),
	out io.Writer,
) error {
	if len(args) == 0 {
		return errUsage
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *email == "" {
		return errUsage
	}

	switch args[0] {
	case "create":
		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		confirm, err := readPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return errors.New("passwords do not match")
		}
		if _, err := users.Register(ctx, *email, password); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return setRole(ctx, users, *email, domain.RoleAdmin, out)
	case "promote":
		return setRole(ctx, users, *email, domain.RoleAdmin, out)
	case "demote":
		return setRole(ctx, users, *email, domain.RoleUser, out)
	default:
		return errUsage
	}
}

func setRole(ctx context.Context, users service.UserService, email string, role domain.Role, out io.Writer) error {
	user, err := users.SetRole(ctx, email, role)
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	_, err = fmt.Fprintf(out, "%s (%s) is now %s\n", user.Email, user.ID, user.Role)
	return err
}

// promptPassword reads a password from the terminal without echo.
func promptPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("password prompt requires a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}
