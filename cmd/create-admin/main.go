package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/lumenlms/lumen-backend/internal/config"
	"github.com/lumenlms/lumen-backend/internal/database"
	"github.com/lumenlms/lumen-backend/internal/logger"
	"github.com/lumenlms/lumen-backend/internal/model"
	"github.com/lumenlms/lumen-backend/internal/service"
	"github.com/lumenlms/lumen-backend/internal/store"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Open Record Store ─────────────────────────────────────────────
	var st store.Store
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		fmt.Println("Error: the memory driver cannot persist a roster entry")
		return
	case config.StoreDriverFile:
		fs, err := store.NewFileStore(cfg.DataDir, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open file store")
		}
		st = fs
	case config.StoreDriverRedis:
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		st = store.NewRedisStore(rdb, cfg.RedisPrefix)
	case config.StoreDriverPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		st = store.NewPostgresStore(pool)
	default:
		log.Fatal().Str("driver", cfg.StoreDriver).Msg("Unknown store driver")
	}

	identityService := service.NewIdentityService(st, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Provision Admin Roster Entry ===")

	// Display name
	fmt.Print("Enter Display Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Display Name is required")
		return
	}

	// Email
	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	entry := model.AdminRosterEntry{
		Email:            email,
		DisplayName:      name,
		CredentialDigest: service.DigestCredential(password),
	}

	if err := identityService.ProvisionRosterEntry(ctx, entry); err != nil {
		log.Fatal().Err(err).Msg("Failed to provision roster entry")
	}

	fmt.Printf("\nSuccess! Roster entry for '%s' (%s) provisioned.\n", entry.DisplayName, entry.Email)
	fmt.Println("Note: a roster disables the first-signup-becomes-admin rule.")
}
