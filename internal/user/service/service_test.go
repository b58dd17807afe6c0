package service

import (
	"context"
	"errors"
	"testing"
	"time"

	commonerrors "github.com/deep-thoughts/backend/internal/common/errors"
	"github.com/deep-thoughts/backend/internal/common/logger"
	thoughtdomain "github.com/deep-thoughts/backend/internal/thought/domain"
	"github.com/deep-thoughts/backend/internal/user/domain"
	userrepo "github.com/deep-thoughts/backend/internal/user/repository"
)

type mockUserRepo struct {
	createFunc         func(ctx context.Context, user domain.User) error
	findByIDFunc       func(ctx context.Context, id domain.ID) (domain.User, error)
	findByUsernameFunc func(ctx context.Context, username string) (domain.User, error)
	findByEmailFunc    func(ctx context.Context, email string) (domain.User, error)
	listAllFunc        func(ctx context.Context) ([]domain.User, error)
	addFriendFunc      func(ctx context.Context, userID, friendID domain.ID) error
	friendsOfFunc      func(ctx context.Context, userIDs []domain.ID) (map[domain.ID][]domain.Summary, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) error {
	return m.createFunc(ctx, user)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return m.findByUsernameFunc(ctx, username)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.findByEmailFunc(ctx, email)
}

func (m *mockUserRepo) ListAll(ctx context.Context) ([]domain.User, error) {
	return m.listAllFunc(ctx)
}

func (m *mockUserRepo) AddFriend(ctx context.Context, userID, friendID domain.ID) error {
	return m.addFriendFunc(ctx, userID, friendID)
}

func (m *mockUserRepo) FriendsOf(ctx context.Context, userIDs []domain.ID) (map[domain.ID][]domain.Summary, error) {
	return m.friendsOfFunc(ctx, userIDs)
}

type mockThoughtSource struct {
	listFunc func(ctx context.Context, username string) ([]thoughtdomain.Thought, error)
}

func (m *mockThoughtSource) List(ctx context.Context, username string) ([]thoughtdomain.Thought, error) {
	return m.listFunc(ctx, username)
}

var testTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestGetUserExpandsRelations(t *testing.T) {
	users := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (domain.User, error) {
			return domain.User{ID: "u1", Username: username, Email: "ada@example.com"}, nil
		},
		friendsOfFunc: func(ctx context.Context, userIDs []domain.ID) (map[domain.ID][]domain.Summary, error) {
			return map[domain.ID][]domain.Summary{
				"u1": {{ID: "u2", Username: "bob", Email: "bob@example.com"}},
			}, nil
		},
	}
	thoughts := &mockThoughtSource{
		listFunc: func(ctx context.Context, username string) ([]thoughtdomain.Thought, error) {
			if username != "ada" {
				t.Errorf("thought list filtered by %q, want %q", username, "ada")
			}
			return []thoughtdomain.Thought{{ID: "t1", Body: "hello", Username: "ada", CreatedAt: testTime}}, nil
		},
	}

	svc := NewUserService(users, thoughts, logger.NewTest())

	profile, found, err := svc.GetUser(context.Background(), "ada")
	if err != nil {
		t.Fatalf("GetUser returned error: %v", err)
	}
	if !found {
		t.Fatal("expected user to be found")
	}
	if len(profile.Friends) != 1 || profile.Friends[0].Username != "bob" {
		t.Errorf("friends not expanded: %+v", profile.Friends)
	}
	if len(profile.Thoughts) != 1 || profile.Thoughts[0].Body != "hello" {
		t.Errorf("thoughts not expanded: %+v", profile.Thoughts)
	}
}

func TestGetUserUnknownUsernameIsEmptyResult(t *testing.T) {
	users := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (domain.User, error) {
			return domain.User{}, userrepo.ErrUserNotFound
		},
	}
	svc := NewUserService(users, &mockThoughtSource{}, logger.NewTest())

	_, found, err := svc.GetUser(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("GetUser returned error: %v", err)
	}
	if found {
		t.Error("expected found=false for unknown username")
	}
}

func TestGetMeUnknownUserDegradesToNotLoggedIn(t *testing.T) {
	users := &mockUserRepo{
		findByIDFunc: func(ctx context.Context, id domain.ID) (domain.User, error) {
			return domain.User{}, userrepo.ErrUserNotFound
		},
	}
	svc := NewUserService(users, &mockThoughtSource{}, logger.NewTest())

	_, err := svc.GetMe(context.Background(), "deleted-user")
	if !errors.Is(err, commonerrors.ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn, got: %v", err)
	}
}

func TestAddFriendRejectsSelf(t *testing.T) {
	svc := NewUserService(&mockUserRepo{}, &mockThoughtSource{}, logger.NewTest())

	_, err := svc.AddFriend(context.Background(), "u1", "u1")
	if !errors.Is(err, commonerrors.ErrSelfFriend) {
		t.Errorf("expected ErrSelfFriend, got: %v", err)
	}
}

func TestAddFriendMissingTarget(t *testing.T) {
	users := &mockUserRepo{
		addFriendFunc: func(ctx context.Context, userID, friendID domain.ID) error {
			return userrepo.ErrFriendMissing
		},
	}
	svc := NewUserService(users, &mockThoughtSource{}, logger.NewTest())

	_, err := svc.AddFriend(context.Background(), "u1", "ghost")
	if !errors.Is(err, commonerrors.ErrFriendNotFound) {
		t.Errorf("expected ErrFriendNotFound, got: %v", err)
	}
}

func TestAddFriendReturnsUpdatedProfile(t *testing.T) {
	addCalls := 0
	users := &mockUserRepo{
		addFriendFunc: func(ctx context.Context, userID, friendID domain.ID) error {
			addCalls++
			return nil
		},
		findByIDFunc: func(ctx context.Context, id domain.ID) (domain.User, error) {
			return domain.User{ID: id, Username: "ada", Email: "ada@example.com"}, nil
		},
		friendsOfFunc: func(ctx context.Context, userIDs []domain.ID) (map[domain.ID][]domain.Summary, error) {
			return map[domain.ID][]domain.Summary{
				"u1": {{ID: "u2", Username: "bob", Email: "bob@example.com"}},
			}, nil
		},
	}
	thoughts := &mockThoughtSource{
		listFunc: func(ctx context.Context, username string) ([]thoughtdomain.Thought, error) {
			return nil, nil
		},
	}
	svc := NewUserService(users, thoughts, logger.NewTest())

	profile, err := svc.AddFriend(context.Background(), "u1", "u2")
	if err != nil {
		t.Fatalf("AddFriend returned error: %v", err)
	}
	if addCalls != 1 {
		t.Errorf("AddFriend store calls = %d, want 1", addCalls)
	}
	if len(profile.Friends) != 1 || profile.Friends[0].ID != "u2" {
		t.Errorf("expected updated profile with friend u2, got: %+v", profile.Friends)
	}
}

func TestListUsersGroupsThoughtsByAuthor(t *testing.T) {
	users := &mockUserRepo{
		listAllFunc: func(ctx context.Context) ([]domain.User, error) {
			return []domain.User{
				{ID: "u1", Username: "ada"},
				{ID: "u2", Username: "bob"},
			}, nil
		},
		friendsOfFunc: func(ctx context.Context, userIDs []domain.ID) (map[domain.ID][]domain.Summary, error) {
			if len(userIDs) != 2 {
				t.Errorf("FriendsOf batch size = %d, want 2", len(userIDs))
			}
			return map[domain.ID][]domain.Summary{}, nil
		},
	}
	thoughts := &mockThoughtSource{
		listFunc: func(ctx context.Context, username string) ([]thoughtdomain.Thought, error) {
			if username != "" {
				t.Errorf("expected one unfiltered thought fetch, got filter %q", username)
			}
			return []thoughtdomain.Thought{
				{ID: "t1", Body: "one", Username: "ada"},
				{ID: "t2", Body: "two", Username: "bob"},
				{ID: "t3", Body: "three", Username: "ada"},
			}, nil
		},
	}
	svc := NewUserService(users, thoughts, logger.NewTest())

	profiles, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("profile count = %d, want 2", len(profiles))
	}
	if len(profiles[0].Thoughts) != 2 {
		t.Errorf("ada thought count = %d, want 2", len(profiles[0].Thoughts))
	}
	if len(profiles[1].Thoughts) != 1 {
		t.Errorf("bob thought count = %d, want 1", len(profiles[1].Thoughts))
	}
}
