// Command admin promotes, demotes and lists administrators.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin promote <user_id>     - Promote user to admin")
	fmt.Println("  go run ./cmd/admin demote <user_id>      - Demote admin to author")
	fmt.Println("  go run ./cmd/admin list-admins           - List all admins")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	users := service.NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	switch os.Args[1] {
	case "promote":
		setRole(ctx, users, models.RoleAdmin)
	case "demote":
		setRole(ctx, users, models.RoleAuthor)
	case "list-admins":
		listAdmins(ctx, users)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func setRole(ctx context.Context, users *service.UserService, role models.Role) {
	if len(os.Args) < 3 {
		usage()
		os.Exit(1)
	}
	id, err := strconv.ParseUint(os.Args[2], 10, 32)
	if err != nil {
		log.Fatalf("Invalid user ID %q", os.Args[2])
	}

	current, err := users.GetUser(ctx, uint(id))
	if err != nil {
		log.Fatalf("Lookup failed: %v", err)
	}
	if current.Role == role {
		fmt.Printf("User %s (ID: %d) already has role %s\n", current.Username, current.ID, role)
		return
	}

	user, err := users.SetRole(ctx, uint(id), role)
	if err != nil {
		log.Fatalf("Failed to update role: %v", err)
	}
	fmt.Printf("Set %s (ID: %d) to %s\n", user.Username, user.ID, user.Role)
}

func listAdmins(ctx context.Context, users *service.UserService) {
	admins, err := users.ListAdmins(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch admins: %v", err)
	}
	if len(admins) == 0 {
		fmt.Println("No admins found")
		return
	}
	fmt.Println("Current admins:")
	for _, admin := range admins {
		fmt.Printf("ID: %d | Username: %s | Email: %s\n", admin.ID, admin.Username, admin.Email)
	}
}
