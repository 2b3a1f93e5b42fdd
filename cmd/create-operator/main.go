// Provisioning script for operator accounts
// cmd/create-operator/main.go
package main

import (
	"flag"
	"log"

	"wad-submission-api/config"
	"wad-submission-api/models"
	"wad-submission-api/utils"

	"github.com/joho/godotenv"
)

func main() {
	email := flag.String("email", "", "operator email address")
	password := flag.String("password", "", "operator password")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}
	if !utils.ValidateEmail(*email) {
		log.Fatalf("invalid email address: %s", *email)
	}

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize database
	config.InitDB()

	hashedPassword, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	user := models.User{Email: *email, Password: hashedPassword}
	if err := config.DB.Create(&user).Error; err != nil {
		log.Fatal("Failed to create operator:", err)
	}

	log.Printf("Operator %s created with ID %d\n", user.Email, user.UserID)
}
