// Command create-admin interactively creates a user attached to the
// admin_si role. Intended for bootstrapping a fresh deployment after
// migrations and seeding have run.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/sa-management/sa-backend/internal/config"
	"github.com/sa-management/sa-backend/internal/database"
	"github.com/sa-management/sa-backend/internal/logger"
	"github.com/sa-management/sa-backend/internal/model"
	"github.com/sa-management/sa-backend/internal/repository"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Admin SI User ===")

	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println()
	if len(password) < 8 {
		fmt.Println("Error: Password must be at least 8 characters")
		return
	}

	// Users created here always get the protected admin role. Attach by
	// name so the command works regardless of seed ordering.
	var roleID int64
	err = pool.QueryRow(ctx,
		`SELECT id FROM roles WHERE name = $1`, model.ProtectedRoleName,
	).Scan(&roleID)
	if err != nil {
		log.Fatal().Err(err).Msg("admin_si role not found, run cmd/seed first")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		RoleID:       roleID,
		IsActive:     true,
	}

	if err := userRepo.Create(ctx, user); err != nil {
		log.Fatal().Err(err).Msg("Failed to create user")
	}

	fmt.Printf("\nSuccess! User '%s' (%s) created with ID: %d\n", user.Name, user.Email, user.ID)
}
