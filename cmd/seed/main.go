// Command seed populates or wipes the database with development data.
package main

import (
	"context"
	"flag"
	"log"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	numBlogs := flag.Int("blogs", 50, "Number of blogs to create")
	fixtures := flag.String("fixtures", "", "Load users and blogs from a YAML fixture file instead of generating them")
	destroy := flag.Bool("d", false, "Destroy all data and exit")
	dryRun := flag.Bool("dry-run", false, "Print what would be written without touching the database")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db, seed.Options{
		NumUsers: *numUsers,
		NumBlogs: *numBlogs,
		DryRun:   *dryRun,
	})

	if *destroy {
		if err := s.Destroy(ctx); err != nil {
			log.Fatalf("❌ Destroy failed: %v", err)
		}
		log.Println("✨ Data destroyed")
		return
	}

	var sum seed.Summary
	if *fixtures != "" {
		fx, err := seed.LoadFixtures(*fixtures)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		sum, err = s.ApplyFixtures(ctx, fx)
		if err != nil {
			log.Fatalf("❌ Fixture seeding failed: %v", err)
		}
	} else {
		sum, err = s.Run(ctx)
		if err != nil {
			log.Fatalf("❌ Seeding failed: %v", err)
		}
	}

	log.Printf("✨ All done: %s", sum)
	if *fixtures == "" {
		log.Printf("📧 All generated users have the password: %s", seed.DefaultPassword)
	}
}
