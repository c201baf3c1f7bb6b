// Command seed fills the configured store with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"garden/internal/config"
	"garden/internal/logger"
	"garden/internal/security"
	"garden/internal/seed"
	"garden/internal/server"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	postsPerUser := flag.Int("posts", 3, "Posts per user")
	commentsPerPost := flag.Int("comments", 2, "Comments per post")
	randSeed := flag.Int64("seed", 0, "Random seed, 0 for a random one")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	appLogger := logger.New(cfg.Env)

	ctx := context.Background()
	store, err := server.OpenStore(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close(ctx)

	s := seed.NewSeeder(store.Users, store.Posts, security.NewPasswordHasher(cfg.BcryptCost), appLogger)
	summary, err := s.Run(ctx, seed.Options{
		Users:           *numUsers,
		PostsPerUser:    *postsPerUser,
		CommentsPerPost: *commentsPerPost,
		Seed:            *randSeed,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d posts and %d comments", summary.Users, summary.Posts, summary.Comments)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
