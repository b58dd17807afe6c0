package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"

	"github.com/deep-thoughts/backend/internal/common/clock"
	"github.com/deep-thoughts/backend/internal/common/config"
	commoncrypto "github.com/deep-thoughts/backend/internal/common/crypto"
	"github.com/deep-thoughts/backend/internal/common/db"
	"github.com/deep-thoughts/backend/internal/common/logger"
	thoughtdomain "github.com/deep-thoughts/backend/internal/thought/domain"
	thoughtrepo "github.com/deep-thoughts/backend/internal/thought/repository"
	userdomain "github.com/deep-thoughts/backend/internal/user/domain"
	userrepo "github.com/deep-thoughts/backend/internal/user/repository"
)

const (
	userCount     = 50
	friendCount   = 100
	thoughtCount  = 100
	reactionCount = 100
)

// Populates the database with generated users, friendships, thoughts, and
// reactions. Wipes existing data first.
func main() {
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("LOG_DIR"), "seed", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.LoadSeedConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	ctx := context.Background()

	if _, err := pool.Exec(ctx, `TRUNCATE reactions, thoughts, user_friends, users`); err != nil {
		log.Fatalf("failed to wipe tables: %v", err)
	}

	users := userrepo.NewPgRepository(pool)
	thoughts := thoughtrepo.NewPgRepository(pool)
	hasher := &commoncrypto.BcryptHasher{}
	idGenerator := commoncrypto.NewUUIDGenerator()
	realClock := clock.NewRealClock()

	created := make([]userdomain.User, 0, userCount)
	for i := 0; i < userCount; i++ {
		hash, err := hasher.Hash(gofakeit.Password(true, true, true, false, false, 12))
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		id, _ := idGenerator.NewID()
		user := userdomain.User{
			ID:           userdomain.ID(id),
			Username:     fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:        fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			PasswordHash: hash,
			CreatedAt:    realClock.Now(),
		}

		if err := users.Create(ctx, user); err != nil {
			log.Fatalf("failed to create user: %v", err)
		}
		created = append(created, user)
	}
	log.Infof("created %d users", len(created))

	for i := 0; i < friendCount; i++ {
		user := created[rand.Intn(len(created))]
		friend := created[rand.Intn(len(created))]
		for friend.ID == user.ID {
			friend = created[rand.Intn(len(created))]
		}

		if err := users.AddFriend(ctx, user.ID, friend.ID); err != nil {
			log.Fatalf("failed to add friend: %v", err)
		}
	}
	log.Infof("created %d friendships", friendCount)

	createdThoughts := make([]thoughtdomain.Thought, 0, thoughtCount)
	for i := 0; i < thoughtCount; i++ {
		author := created[rand.Intn(len(created))]

		id, _ := idGenerator.NewID()
		thought := thoughtdomain.Thought{
			ID:        thoughtdomain.ID(id),
			Body:      gofakeit.Sentence(rand.Intn(20) + 1),
			Username:  author.Username,
			CreatedAt: realClock.Now(),
		}

		if err := thoughts.Create(ctx, thought); err != nil {
			log.Fatalf("failed to create thought: %v", err)
		}
		createdThoughts = append(createdThoughts, thought)
	}
	log.Infof("created %d thoughts", len(createdThoughts))

	for i := 0; i < reactionCount; i++ {
		author := created[rand.Intn(len(created))]
		target := createdThoughts[rand.Intn(len(createdThoughts))]

		id, _ := idGenerator.NewID()
		reaction := thoughtdomain.Reaction{
			ID:        id,
			Body:      gofakeit.Sentence(rand.Intn(20) + 1),
			Username:  author.Username,
			CreatedAt: realClock.Now(),
		}

		if err := thoughts.AddReaction(ctx, target.ID, reaction); err != nil {
			log.Fatalf("failed to add reaction: %v", err)
		}
	}
	log.Infof("created %d reactions", reactionCount)

	log.Info("seed complete")
}
