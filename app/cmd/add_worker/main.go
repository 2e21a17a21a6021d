package main

import (
	"fmt"
	"os"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/config"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/database"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/models"
	"github.com/LiveScriptAI/clock-work-ai-sub000/app/routes/auth"
)

// Bootstrap helper: creates a worker account from the command line.
// Usage: add_worker <email> <password> <first name> <last name>
func main() {
	if len(os.Args) != 5 {
		fmt.Println("Usage: add_worker <email> <password> <first name> <last name>")
		os.Exit(1)
	}

	config.Load()
	db := config.GetDB()
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		fmt.Printf("Error running migrations: %v\n", err)
		os.Exit(1)
	}

	hashed, err := auth.HashPassword(os.Args[2])
	if err != nil {
		fmt.Printf("Error hashing password: %v\n", err)
		os.Exit(1)
	}

	user := &models.User{
		Email:     os.Args[1],
		Password:  hashed,
		FirstName: os.Args[3],
		LastName:  os.Args[4],
	}

	if err := database.CreateUser(db, user); err != nil {
		fmt.Printf("Error creating user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("User created successfully: %s %s (%s)\n", user.FirstName, user.LastName, user.Email)
}
