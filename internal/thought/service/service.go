package service

import (
	"context"
	"errors"

	"github.com/deep-thoughts/backend/internal/common/clock"
	"github.com/deep-thoughts/backend/internal/common/crypto"
	"github.com/deep-thoughts/backend/internal/common/logger"
	"github.com/deep-thoughts/backend/internal/thought/domain"
	thoughtrepo "github.com/deep-thoughts/backend/internal/thought/repository"
)

// Publisher receives every successfully created thought. The live feed
// hub implements it; a nil publisher disables publishing.
type Publisher interface {
	PublishThought(thought domain.Thought)
}

type ThoughtService struct {
	thoughts    thoughtrepo.Repository
	idGenerator crypto.IDGenerator
	clock       clock.Clock
	publisher   Publisher
	log         *logger.Logger
}

func NewThoughtService(
	thoughts thoughtrepo.Repository,
	idGenerator crypto.IDGenerator,
	c clock.Clock,
	publisher Publisher,
	log *logger.Logger,
) *ThoughtService {
	return &ThoughtService{
		thoughts:    thoughts,
		idGenerator: idGenerator,
		clock:       c,
		publisher:   publisher,
		log:         log,
	}
}

func (s *ThoughtService) ListThoughts(ctx context.Context, username string) ([]domain.Thought, error) {
	return s.thoughts.List(ctx, username)
}

// GetThought returns one thought by id. A missing id is a valid empty
// result, reported via found=false.
func (s *ThoughtService) GetThought(ctx context.Context, id domain.ID) (domain.Thought, bool, error) {
	thought, err := s.thoughts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, thoughtrepo.ErrThoughtNotFound) {
			return domain.Thought{}, false, nil
		}
		return domain.Thought{}, false, err
	}
	return thought, true, nil
}

// AddThought creates a thought stamped with the given author username.
// Callers pass the authenticated identity's username; client input never
// reaches this field.
func (s *ThoughtService) AddThought(ctx context.Context, username, body string) (domain.Thought, error) {
	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Thought{}, err
	}

	thought := domain.Thought{
		ID:        domain.ID(id),
		Body:      body,
		Username:  username,
		CreatedAt: s.clock.Now(),
	}

	if err := s.thoughts.Create(ctx, thought); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "add_thought_failed",
		}).Errorf("add thought failed: %v", err)
		return domain.Thought{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"username":   username,
		"thought_id": id,
		"action":     "thought_created",
	}).Info("thought created")

	if s.publisher != nil {
		s.publisher.PublishThought(thought)
	}

	return thought, nil
}

// AddReaction appends a reaction to the target thought and returns the
// updated thought. A missing target is reported via found=false, matching
// the lookup contract rather than erroring.
func (s *ThoughtService) AddReaction(ctx context.Context, thoughtID domain.ID, username, body string) (domain.Thought, bool, error) {
	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Thought{}, false, err
	}

	reaction := domain.Reaction{
		ID:        id,
		Body:      body,
		Username:  username,
		CreatedAt: s.clock.Now(),
	}

	if err := s.thoughts.AddReaction(ctx, thoughtID, reaction); err != nil {
		if errors.Is(err, thoughtrepo.ErrThoughtNotFound) {
			return domain.Thought{}, false, nil
		}
		return domain.Thought{}, false, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"username":   username,
		"thought_id": string(thoughtID),
		"action":     "reaction_added",
	}).Info("reaction added")

	updated, err := s.thoughts.FindByID(ctx, thoughtID)
	if err != nil {
		if errors.Is(err, thoughtrepo.ErrThoughtNotFound) {
			return domain.Thought{}, false, nil
		}
		return domain.Thought{}, false, err
	}

	return updated, true, nil
}
