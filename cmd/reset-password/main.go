package main

import (
	"fmt"
	"log"
	"os"

	"github.com/madxrebel/MStock/internal/repository"
	"github.com/madxrebel/MStock/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Admin tool: force-reset a user's password without knowing the old one.
// Usage: reset-password <email> <new-password>
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: reset-password <email> <new-password>")
		os.Exit(2)
	}
	email, newPassword := os.Args[1], os.Args[2]

	if len(newPassword) < 6 {
		log.Fatal("new password must be at least 6 characters")
	}

	db := database.ConnectDB()
	userRepo := repository.NewUserRepo(db)

	user, err := userRepo.FindByEmail(email)
	if err != nil {
		log.Fatalf("user %s not found", email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	if err := userRepo.UpdatePassword(user.ID, string(hashed)); err != nil {
		log.Fatalf("failed to update password: %v", err)
	}

	// Kill any live session for the account.
	if err := userRepo.UpdateTokenVersion(user.ID, ""); err != nil {
		log.Printf("Warning: failed to reset session: %v", err)
	}

	fmt.Printf("Password updated for %s\n", email)
}
