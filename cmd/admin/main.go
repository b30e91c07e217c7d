// Command admin runs maintenance tasks against the marketplace database.
//
//	admin migrate
//	admin create-superuser -username root -email root@example.com
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/iliyamo/freelance-marketplace/internal/config"
	"github.com/iliyamo/freelance-marketplace/internal/database"
	"github.com/iliyamo/freelance-marketplace/internal/logger"
	"github.com/iliyamo/freelance-marketplace/internal/model"
	"github.com/iliyamo/freelance-marketplace/internal/repository"
	"github.com/iliyamo/freelance-marketplace/internal/utils"
)

const cmdTimeout = 30 * time.Second

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <migrate|create-superuser> [flags]\n", os.Args[0])
}

func main() {
	_ = godotenv.Load()
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	log, err := logger.New(logger.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	switch os.Args[1] {
	case "migrate":
		err = runMigrate(log)
	case "create-superuser":
		err = runCreateSuperuser(log, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error(os.Args[1]+" failed", zap.Error(err))
		os.Exit(1)
	}
}

// openDB loads only the database settings, so the maintenance commands
// work without JWT_SECRET.
func openDB(ctx context.Context) (*sqlx.DB, error) {
	cfg, err := config.LoadDB()
	if err != nil {
		return nil, err
	}
	return database.Open(ctx, cfg)
}

func runMigrate(log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	return database.Migrate(ctx, db, log)
}

// runCreateSuperuser creates an identity with the superuser flag.  It is
// the explicit way to bootstrap an administrator; the bootstrap row is
// claimed as well, so no later registration is promoted.
func runCreateSuperuser(log *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("create-superuser", flag.ContinueOnError)
	username := fs.String("username", "", "login name (required)")
	email := fs.String("email", "", "email address (required)")
	first := fs.String("first", "Admin", "first name")
	last := fs.String("last", "User", "last name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*username) == "" || strings.TrimSpace(*email) == "" {
		fs.Usage()
		return errors.New("-username and -email are required")
	}

	password, err := readPassword()
	if err != nil {
		return err
	}
	cost, err := config.LoadBcryptCost()
	if err != nil {
		return err
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	u, err := repository.NewUserRepo(db).Create(ctx, model.NewUser{
		FirstName:    *first,
		LastName:     *last,
		Email:        *email,
		Username:     *username,
		PasswordHash: hash,
		IsSuperuser:  true,
	})
	if err != nil {
		return err
	}
	log.Info("superuser created", zap.Int64("id", u.ID), zap.String("username", u.Username))
	return nil
}

// readPassword prompts twice without echo on a terminal and reads a single
// line otherwise, so the command can be scripted.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read password: %w", err)
		}
		return validPassword(strings.TrimRight(line, "\r\n"))
	}

	fmt.Fprint(os.Stderr, "Password: ")
	p1, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Fprint(os.Stderr, "Password (again): ")
	p2, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if string(p1) != string(p2) {
		return "", errors.New("passwords are not the same")
	}
	return validPassword(string(p1))
}

func validPassword(p string) (string, error) {
	if p == "" {
		return "", errors.New("empty password")
	}
	return p, nil
}
