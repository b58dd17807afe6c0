package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/deep-thoughts/backend/internal/common/clock"
	"github.com/deep-thoughts/backend/internal/observability/metrics"
)

// Verification failures are typed so callers can branch instead of
// inspecting strings. The request authenticator treats all of them as
// "no identity"; nothing downstream ever sees a raw parse error.
var (
	ErrTokenMalformed   = errors.New("token is malformed")
	ErrTokenExpired     = errors.New("token is expired")
	ErrSignatureInvalid = errors.New("token signature is invalid")
)

// Claims is the minimal identity triple embedded in every token.
type Claims struct {
	UserID   string
	Username string
	Email    string
}

// Issuer creates and verifies signed, time-limited identity tokens. The
// secret is injected at construction; there is no server-side token
// state, so validity is a pure function of token, secret, and clock.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewIssuer(secret string, ttl time.Duration, c clock.Clock) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		clock:  c,
	}
}

func (i *Issuer) Issue(claims Claims) (string, error) {
	now := i.clock.Now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"data": map[string]any{
			"id":       claims.UserID,
			"username": claims.Username,
			"email":    claims.Email,
		},
		"iat": now.Unix(),
		"exp": now.Add(i.ttl).Unix(),
	})

	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", err
	}

	metrics.TokensIssued.Inc()
	return signed, nil
}

func (i *Issuer) Verify(tokenString string) (Claims, error) {
	metrics.TokenVerificationsTotal.Inc()

	parsed, err := jwt.Parse(
		tokenString,
		func(t *jwt.Token) (any, error) {
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		reason := classifyError(err)
		metrics.TokenVerificationsFailed.WithLabelValues(reason.Error()).Inc()
		return Claims{}, reason
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrTokenMalformed
	}

	data, ok := mapClaims["data"].(map[string]any)
	if !ok {
		return Claims{}, ErrTokenMalformed
	}

	id, _ := data["id"].(string)
	username, _ := data["username"].(string)
	email, _ := data["email"].(string)
	if id == "" || username == "" {
		return Claims{}, ErrTokenMalformed
	}

	return Claims{UserID: id, Username: username, Email: email}, nil
}

func classifyError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrSignatureInvalid
	default:
		return ErrTokenMalformed
	}
}
