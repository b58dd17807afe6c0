package api

import (
	"context"
	"fmt"
	"sort"

	thoughtdomain "github.com/deep-thoughts/backend/internal/thought/domain"
	thoughtrepo "github.com/deep-thoughts/backend/internal/thought/repository"
	userdomain "github.com/deep-thoughts/backend/internal/user/domain"
	userrepo "github.com/deep-thoughts/backend/internal/user/repository"
)

// In-memory stores with the same contracts as the pg repositories,
// including sentinel errors and add-to-set friend semantics.

type fakeUserRepo struct {
	users   map[userdomain.ID]userdomain.User
	friends map[userdomain.ID]map[userdomain.ID]bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[userdomain.ID]userdomain.User),
		friends: make(map[userdomain.ID]map[userdomain.ID]bool),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, user userdomain.User) error {
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return userrepo.ErrUsernameAlreadyExists
		}
		if existing.Email == user.Email {
			return userrepo.ErrEmailAlreadyExists
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (r *fakeUserRepo) ListAll(ctx context.Context) ([]userdomain.User, error) {
	users := make([]userdomain.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (r *fakeUserRepo) AddFriend(ctx context.Context, userID, friendID userdomain.ID) error {
	if _, ok := r.users[friendID]; !ok {
		return userrepo.ErrFriendMissing
	}
	if r.friends[userID] == nil {
		r.friends[userID] = make(map[userdomain.ID]bool)
	}
	r.friends[userID][friendID] = true
	return nil
}

func (r *fakeUserRepo) FriendsOf(ctx context.Context, userIDs []userdomain.ID) (map[userdomain.ID][]userdomain.Summary, error) {
	result := make(map[userdomain.ID][]userdomain.Summary)
	for _, id := range userIDs {
		for friendID := range r.friends[id] {
			friend := r.users[friendID]
			result[id] = append(result[id], userdomain.Summary{
				ID:       friend.ID,
				Username: friend.Username,
				Email:    friend.Email,
			})
		}
	}
	return result, nil
}

type fakeThoughtRepo struct {
	thoughts  []thoughtdomain.Thought
	reactions map[thoughtdomain.ID][]thoughtdomain.Reaction
}

func newFakeThoughtRepo() *fakeThoughtRepo {
	return &fakeThoughtRepo{reactions: make(map[thoughtdomain.ID][]thoughtdomain.Reaction)}
}

func (r *fakeThoughtRepo) Create(ctx context.Context, thought thoughtdomain.Thought) error {
	r.thoughts = append(r.thoughts, thought)
	return nil
}

func (r *fakeThoughtRepo) FindByID(ctx context.Context, id thoughtdomain.ID) (thoughtdomain.Thought, error) {
	for _, t := range r.thoughts {
		if t.ID == id {
			t.Reactions = r.reactions[id]
			return t, nil
		}
	}
	return thoughtdomain.Thought{}, thoughtrepo.ErrThoughtNotFound
}

func (r *fakeThoughtRepo) List(ctx context.Context, username string) ([]thoughtdomain.Thought, error) {
	var result []thoughtdomain.Thought
	for i := len(r.thoughts) - 1; i >= 0; i-- {
		t := r.thoughts[i]
		if username != "" && t.Username != username {
			continue
		}
		t.Reactions = r.reactions[t.ID]
		result = append(result, t)
	}
	return result, nil
}

func (r *fakeThoughtRepo) AddReaction(ctx context.Context, thoughtID thoughtdomain.ID, reaction thoughtdomain.Reaction) error {
	if _, err := r.FindByID(ctx, thoughtID); err != nil {
		return thoughtrepo.ErrThoughtNotFound
	}
	r.reactions[thoughtID] = append(r.reactions[thoughtID], reaction)
	return nil
}

type fakeHasher struct{}

func (h *fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (h *fakeHasher) Compare(hash string, password string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("hash mismatch")
	}
	return nil
}

// seqIDGenerator yields deterministic, well-formed UUIDs.
type seqIDGenerator struct {
	n int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.n++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", g.n), nil
}
