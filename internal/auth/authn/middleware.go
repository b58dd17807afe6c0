package authn

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/deep-thoughts/backend/internal/auth/token"
	"github.com/deep-thoughts/backend/internal/common/logger"
)

// Identity is the verified claim set attached to a request after a
// successful token check. Requests without one are anonymous; that is a
// valid state, not an error.
type Identity struct {
	UserID   string
	Username string
	Email    string
}

type Verifier interface {
	Verify(tokenString string) (token.Claims, error)
}

type contextKey string

const identityKey contextKey = "identity"

// Middleware locates a candidate token (body field, then query parameter,
// then Authorization header) and attaches the verified identity to the
// request context. Invalid or missing tokens degrade to anonymous access:
// the request always proceeds, and public operations stay reachable even
// with a stale token attached.
func Middleware(verifier Verifier, log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				log.WithFields(r.Context(), logger.Fields{
					"path":   r.URL.Path,
					"action": "token_rejected",
				}).Warnf("invalid token: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			identity := Identity{
				UserID:   claims.UserID,
				Username: claims.Username,
				Email:    claims.Email,
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func FromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// extractToken checks the request body field "token" first, then the
// "token" query parameter, then the Authorization header with a leading
// scheme label ("Bearer x" yields "x"). The body is buffered and restored
// so the dispatcher can still decode it.
func extractToken(r *http.Request) string {
	if r.Body != nil && r.Body != http.NoBody {
		body, err := io.ReadAll(r.Body)
		r.Body.Close()
		if err == nil {
			r.Body = io.NopCloser(bytes.NewReader(body))
			var probe struct {
				Token string `json:"token"`
			}
			if json.Unmarshal(body, &probe) == nil && probe.Token != "" {
				return probe.Token
			}
		} else {
			r.Body = io.NopCloser(bytes.NewReader(nil))
		}
	}

	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}

	if raw := r.Header.Get("Authorization"); raw != "" {
		parts := strings.Fields(raw)
		if len(parts) > 0 {
			return parts[len(parts)-1]
		}
	}

	return ""
}
