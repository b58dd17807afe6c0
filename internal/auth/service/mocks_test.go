package service

import (
	"context"

	userdomain "github.com/deep-thoughts/backend/internal/user/domain"
)

type mockUserRepo struct {
	createFunc         func(ctx context.Context, user userdomain.User) error
	findByIDFunc       func(ctx context.Context, id userdomain.ID) (userdomain.User, error)
	findByUsernameFunc func(ctx context.Context, username string) (userdomain.User, error)
	findByEmailFunc    func(ctx context.Context, email string) (userdomain.User, error)
	listAllFunc        func(ctx context.Context) ([]userdomain.User, error)
	addFriendFunc      func(ctx context.Context, userID, friendID userdomain.ID) error
	friendsOfFunc      func(ctx context.Context, userIDs []userdomain.ID) (map[userdomain.ID][]userdomain.Summary, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) error {
	return m.createFunc(ctx, user)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	return m.findByUsernameFunc(ctx, username)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	return m.findByEmailFunc(ctx, email)
}

func (m *mockUserRepo) ListAll(ctx context.Context) ([]userdomain.User, error) {
	return m.listAllFunc(ctx)
}

func (m *mockUserRepo) AddFriend(ctx context.Context, userID, friendID userdomain.ID) error {
	return m.addFriendFunc(ctx, userID, friendID)
}

func (m *mockUserRepo) FriendsOf(ctx context.Context, userIDs []userdomain.ID) (map[userdomain.ID][]userdomain.Summary, error) {
	return m.friendsOfFunc(ctx, userIDs)
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash string, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	return m.hashFunc(password)
}

func (m *mockHasher) Compare(hash string, password string) error {
	return m.compareFunc(hash, password)
}

type mockIDGenerator struct {
	id string
}

func (m *mockIDGenerator) NewID() (string, error) {
	return m.id, nil
}
