package service

import (
	"context"
	"errors"

	commonerrors "github.com/deep-thoughts/backend/internal/common/errors"
	"github.com/deep-thoughts/backend/internal/common/logger"
	thoughtdomain "github.com/deep-thoughts/backend/internal/thought/domain"
	"github.com/deep-thoughts/backend/internal/user/domain"
	userrepo "github.com/deep-thoughts/backend/internal/user/repository"
)

// ThoughtSource is the slice of the thought store the user service needs
// to expand a user's thought list.
type ThoughtSource interface {
	List(ctx context.Context, username string) ([]thoughtdomain.Thought, error)
}

// Profile is a user with relations expanded: the primary fetch plus
// explicit join steps for friends and thoughts. The password hash stays
// behind; Profile is safe to shape into a response as-is.
type Profile struct {
	ID       domain.ID
	Username string
	Email    string
	Friends  []domain.Summary
	Thoughts []thoughtdomain.Thought
}

type UserService struct {
	users    userrepo.Repository
	thoughts ThoughtSource
	log      *logger.Logger
}

func NewUserService(users userrepo.Repository, thoughts ThoughtSource, log *logger.Logger) *UserService {
	return &UserService{
		users:    users,
		thoughts: thoughts,
		log:      log,
	}
}

func (s *UserService) ListUsers(ctx context.Context) ([]Profile, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]domain.ID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	friends, err := s.users.FriendsOf(ctx, ids)
	if err != nil {
		return nil, err
	}

	// One unfiltered fetch covers every user's thought list.
	allThoughts, err := s.thoughts.List(ctx, "")
	if err != nil {
		return nil, err
	}
	byAuthor := make(map[string][]thoughtdomain.Thought)
	for _, t := range allThoughts {
		byAuthor[t.Username] = append(byAuthor[t.Username], t)
	}

	profiles := make([]Profile, len(users))
	for i, u := range users {
		profiles[i] = Profile{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Friends:  friends[u.ID],
			Thoughts: byAuthor[u.Username],
		}
	}

	return profiles, nil
}

// GetUser returns the expanded profile for one username. An unknown
// username is a valid empty result, reported via found=false.
func (s *UserService) GetUser(ctx context.Context, username string) (Profile, bool, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return Profile{}, false, nil
		}
		return Profile{}, false, err
	}

	profile, err := s.expand(ctx, user)
	if err != nil {
		return Profile{}, false, err
	}
	return profile, true, nil
}

// GetMe resolves the authenticated user's own record. A verified token
// whose user no longer exists degrades to the same failure as a missing
// identity.
func (s *UserService) GetMe(ctx context.Context, userID domain.ID) (Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return Profile{}, commonerrors.ErrNotLoggedIn
		}
		return Profile{}, err
	}

	return s.expand(ctx, user)
}

// AddFriend adds friendID to the user's friend set, idempotently. The
// updated profile is returned with friends expanded.
func (s *UserService) AddFriend(ctx context.Context, userID, friendID domain.ID) (Profile, error) {
	if userID == friendID {
		return Profile{}, commonerrors.ErrSelfFriend
	}

	if err := s.users.AddFriend(ctx, userID, friendID); err != nil {
		if errors.Is(err, userrepo.ErrFriendMissing) {
			return Profile{}, commonerrors.ErrFriendNotFound
		}
		return Profile{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id":   string(userID),
		"friend_id": string(friendID),
		"action":    "friend_added",
	}).Info("friend added")

	return s.GetMe(ctx, userID)
}

func (s *UserService) expand(ctx context.Context, user domain.User) (Profile, error) {
	friends, err := s.users.FriendsOf(ctx, []domain.ID{user.ID})
	if err != nil {
		return Profile{}, err
	}

	thoughts, err := s.thoughts.List(ctx, user.Username)
	if err != nil {
		return Profile{}, err
	}

	return Profile{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Friends:  friends[user.ID],
		Thoughts: thoughts,
	}, nil
}
