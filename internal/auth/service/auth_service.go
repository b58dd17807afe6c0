package service

import (
	"context"
	"errors"

	"github.com/deep-thoughts/backend/internal/auth/token"
	"github.com/deep-thoughts/backend/internal/common/clock"
	"github.com/deep-thoughts/backend/internal/common/crypto"
	commonerrors "github.com/deep-thoughts/backend/internal/common/errors"
	"github.com/deep-thoughts/backend/internal/common/logger"
	"github.com/deep-thoughts/backend/internal/observability/metrics"
	userdomain "github.com/deep-thoughts/backend/internal/user/domain"
	userrepo "github.com/deep-thoughts/backend/internal/user/repository"
)

// AuthService owns signup and login: credential verification against the
// stored hash, and token issuance on success.
type AuthService struct {
	users       userrepo.Repository
	hasher      crypto.PasswordHasher
	idGenerator crypto.IDGenerator
	tokens      *token.Issuer
	clock       clock.Clock
	log         *logger.Logger
}

func NewAuthService(
	users userrepo.Repository,
	hasher crypto.PasswordHasher,
	idGenerator crypto.IDGenerator,
	tokens *token.Issuer,
	c clock.Clock,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		hasher:      hasher,
		idGenerator: idGenerator,
		tokens:      tokens,
		clock:       c,
		log:         log,
	}
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

// AuthPayload is what both signup and login hand back to the client: a
// fresh token plus the user record it identifies.
type AuthPayload struct {
	Token string
	User  userdomain.User
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (AuthPayload, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "signup_attempt",
	}).Info("signup attempt")

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "signup_hash_failed",
		}).Errorf("signup failed: password hash error: %v", err)
		return AuthPayload{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return AuthPayload{}, err
	}

	user := userdomain.User{
		ID:           userdomain.ID(id),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, userrepo.ErrUsernameAlreadyExists):
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "signup_username_exists",
			}).Warn("signup failed: username taken")
			metrics.SignupsTotal.WithLabelValues("conflict").Inc()
			return AuthPayload{}, commonerrors.ErrUsernameTaken
		case errors.Is(err, userrepo.ErrEmailAlreadyExists):
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "signup_email_exists",
			}).Warn("signup failed: email taken")
			metrics.SignupsTotal.WithLabelValues("conflict").Inc()
			return AuthPayload{}, commonerrors.ErrEmailTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "signup_create_failed",
		}).Errorf("signup failed: %v", err)
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		return AuthPayload{}, err
	}

	signed, err := s.issueToken(ctx, user)
	if err != nil {
		return AuthPayload{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "signup_success",
	}).Info("signup success")
	metrics.SignupsTotal.WithLabelValues("success").Inc()

	return AuthPayload{Token: signed, User: user}, nil
}

// Login looks the user up by email and compares the password against the
// stored hash. The two failure modes are deliberately distinct messages,
// matching the client contract.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthPayload, error) {
	s.log.WithFields(ctx, logger.Fields{
		"action": "login_attempt",
	}).Info("login attempt")

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"action": "login_email_not_found",
			}).Warn("login failed: unknown email")
			metrics.LoginAttemptsTotal.WithLabelValues("unknown_email").Inc()
			return AuthPayload{}, commonerrors.ErrIncorrectEmail
		}
		s.log.WithFields(ctx, logger.Fields{
			"action": "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return AuthPayload{}, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_invalid_password",
		}).Warn("login failed: invalid password")
		metrics.LoginAttemptsTotal.WithLabelValues("bad_password").Inc()
		return AuthPayload{}, commonerrors.ErrIncorrectCredentials
	}

	signed, err := s.issueToken(ctx, user)
	if err != nil {
		return AuthPayload{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "login_success",
	}).Info("login success")
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	return AuthPayload{Token: signed, User: user}, nil
}

func (s *AuthService) issueToken(ctx context.Context, user userdomain.User) (string, error) {
	signed, err := s.tokens.Issue(token.Claims{
		UserID:   string(user.ID),
		Username: user.Username,
		Email:    user.Email,
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "token_issue_failed",
		}).Errorf("token issue failed: %v", err)
		return "", err
	}
	return signed, nil
}
