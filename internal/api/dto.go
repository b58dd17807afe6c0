package api

import (
	"time"

	thoughtdomain "github.com/deep-thoughts/backend/internal/thought/domain"
	userdomain "github.com/deep-thoughts/backend/internal/user/domain"
	userservice "github.com/deep-thoughts/backend/internal/user/service"
)

// Response shapes mirror the client schema: counts are computed fields,
// relations are embedded, and the password hash has no representation at
// all.

type ReactionView struct {
	ID           string    `json:"id"`
	ReactionBody string    `json:"reactionBody"`
	Username     string    `json:"username"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ThoughtView struct {
	ID            string         `json:"id"`
	ThoughtText   string         `json:"thoughtText"`
	Username      string         `json:"username"`
	CreatedAt     time.Time      `json:"createdAt"`
	ReactionCount int            `json:"reactionCount"`
	Reactions     []ReactionView `json:"reactions"`
}

type FriendView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type UserView struct {
	ID          string        `json:"id"`
	Username    string        `json:"username"`
	Email       string        `json:"email"`
	FriendCount int           `json:"friendCount"`
	Friends     []FriendView  `json:"friends"`
	Thoughts    []ThoughtView `json:"thoughts"`
}

type AuthView struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

func toThoughtView(t thoughtdomain.Thought) ThoughtView {
	reactions := make([]ReactionView, len(t.Reactions))
	for i, re := range t.Reactions {
		reactions[i] = ReactionView{
			ID:           re.ID,
			ReactionBody: re.Body,
			Username:     re.Username,
			CreatedAt:    re.CreatedAt,
		}
	}

	return ThoughtView{
		ID:            string(t.ID),
		ThoughtText:   t.Body,
		Username:      t.Username,
		CreatedAt:     t.CreatedAt,
		ReactionCount: len(reactions),
		Reactions:     reactions,
	}
}

func toThoughtViews(thoughts []thoughtdomain.Thought) []ThoughtView {
	views := make([]ThoughtView, len(thoughts))
	for i, t := range thoughts {
		views[i] = toThoughtView(t)
	}
	return views
}

func toProfileView(p userservice.Profile) UserView {
	friends := make([]FriendView, len(p.Friends))
	for i, f := range p.Friends {
		friends[i] = FriendView{
			ID:       string(f.ID),
			Username: f.Username,
			Email:    f.Email,
		}
	}

	return UserView{
		ID:          string(p.ID),
		Username:    p.Username,
		Email:       p.Email,
		FriendCount: len(friends),
		Friends:     friends,
		Thoughts:    toThoughtViews(p.Thoughts),
	}
}

// toBareUserView shapes a freshly created or just-authenticated user that
// has no expanded relations yet.
func toBareUserView(u userdomain.User) UserView {
	return UserView{
		ID:       string(u.ID),
		Username: u.Username,
		Email:    u.Email,
		Friends:  []FriendView{},
		Thoughts: []ThoughtView{},
	}
}
