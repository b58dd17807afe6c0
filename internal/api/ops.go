package api

import (
	"context"
	"encoding/json"

	"github.com/deep-thoughts/backend/internal/auth/authn"
	authservice "github.com/deep-thoughts/backend/internal/auth/service"
	thoughtdomain "github.com/deep-thoughts/backend/internal/thought/domain"
	userdomain "github.com/deep-thoughts/backend/internal/user/domain"
)

type userInput struct {
	Username string `json:"username" validate:"required"`
}

type thoughtsInput struct {
	Username string `json:"username"`
}

type thoughtInput struct {
	ID string `json:"id" validate:"required,uuid"`
}

type signupInput struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5,max=72"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// addThoughtInput tolerates a username field but never uses it: the
// author stamp always comes from the authenticated identity.
type addThoughtInput struct {
	ThoughtText string `json:"thoughtText" validate:"required,max=280"`
	Username    string `json:"username"`
}

type addReactionInput struct {
	ThoughtID    string `json:"thoughtId" validate:"required,uuid"`
	ReactionBody string `json:"reactionBody" validate:"required,max=280"`
}

type addFriendInput struct {
	FriendID string `json:"friendId" validate:"required,uuid"`
}

func (d *Dispatcher) listUsers(ctx context.Context, _ *authn.Identity, _ json.RawMessage) (any, error) {
	profiles, err := d.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]UserView, len(profiles))
	for i, p := range profiles {
		views[i] = toProfileView(p)
	}
	return views, nil
}

func (d *Dispatcher) getUser(ctx context.Context, _ *authn.Identity, raw json.RawMessage) (any, error) {
	var input userInput
	if err := d.decodeInput(raw, &input); err != nil {
		return nil, err
	}

	profile, found, err := d.users.GetUser(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return toProfileView(profile), nil
}

func (d *Dispatcher) listThoughts(ctx context.Context, _ *authn.Identity, raw json.RawMessage) (any, error) {
	var input thoughtsInput
	if err := d.decodeInput(raw, &input); err != nil {
		return nil, err
	}

	thoughts, err := d.thoughts.ListThoughts(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	return toThoughtViews(thoughts), nil
}

func (d *Dispatcher) getThought(ctx context.Context, _ *authn.Identity, raw json.RawMessage) (any, error) {
	var input thoughtInput
	if err := d.decodeInput(raw, &input); err != nil {
		return nil, err
	}

	thought, found, err := d.thoughts.GetThought(ctx, thoughtdomain.ID(input.ID))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return toThoughtView(thought), nil
}

func (d *Dispatcher) me(ctx context.Context, ident *authn.Identity, _ json.RawMessage) (any, error) {
	profile, err := d.users.GetMe(ctx, userdomain.ID(ident.UserID))
	if err != nil {
		return nil, err
	}
	return toProfileView(profile), nil
}

func (d *Dispatcher) signup(ctx context.Context, _ *authn.Identity, raw json.RawMessage) (any, error) {
	var input signupInput
	if err := d.decodeInput(raw, &input); err != nil {
		return nil, err
	}

	payload, err := d.auth.Signup(ctx, authservice.SignupInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return nil, err
	}

	return AuthView{Token: payload.Token, User: toBareUserView(payload.User)}, nil
}

func (d *Dispatcher) login(ctx context.Context, _ *authn.Identity, raw json.RawMessage) (any, error) {
	var input loginInput
	if err := d.decodeInput(raw, &input); err != nil {
		return nil, err
	}

	payload, err := d.auth.Login(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	return AuthView{Token: payload.Token, User: toBareUserView(payload.User)}, nil
}

func (d *Dispatcher) addThought(ctx context.Context, ident *authn.Identity, raw json.RawMessage) (any, error) {
	var input addThoughtInput
	if err := d.decodeInput(raw, &input); err != nil {
		return nil, err
	}

	thought, err := d.thoughts.AddThought(ctx, ident.Username, input.ThoughtText)
	if err != nil {
		return nil, err
	}
	return toThoughtView(thought), nil
}

func (d *Dispatcher) addReaction(ctx context.Context, ident *authn.Identity, raw json.RawMessage) (any, error) {
	var input addReactionInput
	if err := d.decodeInput(raw, &input); err != nil {
		return nil, err
	}

	thought, found, err := d.thoughts.AddReaction(
		ctx,
		thoughtdomain.ID(input.ThoughtID),
		ident.Username,
		input.ReactionBody,
	)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return toThoughtView(thought), nil
}

func (d *Dispatcher) addFriend(ctx context.Context, ident *authn.Identity, raw json.RawMessage) (any, error) {
	var input addFriendInput
	if err := d.decodeInput(raw, &input); err != nil {
		return nil, err
	}

	profile, err := d.users.AddFriend(
		ctx,
		userdomain.ID(ident.UserID),
		userdomain.ID(input.FriendID),
	)
	if err != nil {
		return nil, err
	}
	return toProfileView(profile), nil
}
