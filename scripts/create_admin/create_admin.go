package main

import (
	"fmt"
	"log"

	"trafkin/backend/config"
	"trafkin/backend/database"
	"trafkin/backend/models"
	"trafkin/backend/utils"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var user models.User
	if err := db.Where("email = ?", "admin@trafkin.cd").First(&user).Error; err != nil {
		fmt.Println("Admin user not found, creating...")

		hashedPassword, err := utils.HashPassword("demo123")
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}

		admin := &models.User{
			Email:    "admin@trafkin.cd",
			Name:     "Admin User",
			Password: hashedPassword,
			Role:     "admin",
		}

		if err := db.Create(admin).Error; err != nil {
			log.Fatalf("Failed to create admin user: %v", err)
		}

		fmt.Println("Admin user created successfully!")
		fmt.Println("   Email: admin@trafkin.cd")
		fmt.Println("   Password: demo123")
	} else {
		fmt.Println("Admin user found, resetting password...")

		hashedPassword, err := utils.HashPassword("demo123")
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}

		user.Password = hashedPassword
		if err := db.Save(&user).Error; err != nil {
			log.Fatalf("Failed to update password: %v", err)
		}

		fmt.Println("Admin password reset successfully!")
		fmt.Println("   Email: admin@trafkin.cd")
		fmt.Println("   Password: demo123")
	}
}
