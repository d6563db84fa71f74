// Command main runs the database seeder for Lantern.
package main

import (
	"flag"
	"log"

	"lantern/internal/config"
	"lantern/internal/database"
	"lantern/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numDiaries := flag.Int("diaries", 200, "Number of diaries to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("fast", false, "Skip bcrypt hashing for faster seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d diaries, clean=%v\n", *numUsers, *numDiaries, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		NumUsers:   *numUsers,
		NumDiaries: *numDiaries,
		SkipBcrypt: *skipBcrypt,
	})

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if _, err := s.EnsureMaintainer(cfg.MaintainerUsername); err != nil {
		log.Fatalf("Maintainer seeding failed: %v", err)
	}

	users, err := s.SeedCommunity(*numUsers)
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	log.Printf("Created %d users", len(users))

	diaries, err := s.SeedDiaries(users, *numDiaries)
	if err != nil {
		log.Fatalf("Diary seeding failed: %v", err)
	}
	log.Printf("Created %d diaries", len(diaries))

	collabs, err := s.SeedCollaborations(users, diaries)
	if err != nil {
		log.Fatalf("Collaboration seeding failed: %v", err)
	}
	log.Printf("Filed %d collaboration requests", collabs)

	if err := s.SeedFollowGraph(users); err != nil {
		log.Fatalf("Follow graph seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with test data.")
	log.Println("All test users have the password: password123")
}
