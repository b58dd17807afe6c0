package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/deep-thoughts/backend/internal/auth/authn"
	authservice "github.com/deep-thoughts/backend/internal/auth/service"
	commonerrors "github.com/deep-thoughts/backend/internal/common/errors"
	commonhttp "github.com/deep-thoughts/backend/internal/common/http"
	"github.com/deep-thoughts/backend/internal/common/logger"
	"github.com/deep-thoughts/backend/internal/observability/metrics"
	thoughtservice "github.com/deep-thoughts/backend/internal/thought/service"
	userservice "github.com/deep-thoughts/backend/internal/user/service"
)

// envelope is the wire format of the single operation endpoint. The token
// field is consumed by the request authenticator before dispatch; it is
// listed here only so decoding tolerates it.
type envelope struct {
	Op    string          `json:"op"`
	Input json.RawMessage `json:"input"`
	Token string          `json:"token"`
}

// operation binds a named API operation to its authorization requirement
// and handler. Exactly two authorization levels exist: public, and
// must-have-identity. The identity pointer is nil for anonymous requests.
type operation struct {
	authRequired bool
	authError    commonerrors.DomainError
	handle       func(ctx context.Context, ident *authn.Identity, input json.RawMessage) (any, error)
}

// Dispatcher maps typed operations onto store actions under the
// authorization policy. It is the only component that decides whether an
// anonymous request may proceed.
type Dispatcher struct {
	auth     *authservice.AuthService
	users    *userservice.UserService
	thoughts *thoughtservice.ThoughtService
	validate *validator.Validate
	log      *logger.Logger
	ops      map[string]operation
}

func NewDispatcher(
	auth *authservice.AuthService,
	users *userservice.UserService,
	thoughts *thoughtservice.ThoughtService,
	log *logger.Logger,
) *Dispatcher {
	d := &Dispatcher{
		auth:     auth,
		users:    users,
		thoughts: thoughts,
		validate: validator.New(),
		log:      log,
	}

	d.ops = map[string]operation{
		"users":       {handle: d.listUsers},
		"user":        {handle: d.getUser},
		"thoughts":    {handle: d.listThoughts},
		"thought":     {handle: d.getThought},
		"me":          {authRequired: true, authError: commonerrors.ErrNotLoggedIn, handle: d.me},
		"signup":      {handle: d.signup},
		"login":       {handle: d.login},
		"addThought":  {authRequired: true, authError: commonerrors.ErrLoginRequired, handle: d.addThought},
		"addReaction": {authRequired: true, authError: commonerrors.ErrLoginRequired, handle: d.addReaction},
		"addFriend":   {authRequired: true, authError: commonerrors.ErrLoginRequired, handle: d.addFriend},
	}

	return d
}

// Handler serves the single operation endpoint.
func (d *Dispatcher) Handler() http.HandlerFunc {
	return commonhttp.RequireMethod(http.MethodPost)(func(w http.ResponseWriter, r *http.Request) {
		var env envelope
		if err := commonhttp.DecodeJSON(r, &env); err != nil {
			commonhttp.HandleError(w, r, commonerrors.NewValidationError("invalid request body"), d.log)
			return
		}

		op, ok := d.ops[env.Op]
		if !ok {
			metrics.OperationsTotal.WithLabelValues("unknown", "error").Inc()
			commonhttp.HandleError(w, r, commonerrors.ErrUnknownOperation, d.log)
			return
		}

		var ident *authn.Identity
		if identity, found := authn.FromContext(r.Context()); found {
			ident = &identity
		}

		if op.authRequired && ident == nil {
			metrics.OperationsTotal.WithLabelValues(env.Op, "unauthorized").Inc()
			commonhttp.HandleError(w, r, op.authError, d.log)
			return
		}

		result, err := op.handle(r.Context(), ident, env.Input)
		if err != nil {
			metrics.OperationsTotal.WithLabelValues(env.Op, "error").Inc()
			commonhttp.HandleError(w, r, err, d.log)
			return
		}

		metrics.OperationsTotal.WithLabelValues(env.Op, "ok").Inc()
		commonhttp.WriteData(w, result)
	})
}

// decodeInput unmarshals and validates an operation's input. Schema-level
// violations are rejected here, before any handler logic runs.
func (d *Dispatcher) decodeInput(raw json.RawMessage, v any) error {
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, v); err != nil {
			return commonerrors.NewValidationError("invalid input")
		}
	}

	if err := d.validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return commonerrors.NewValidationError(
				fmt.Sprintf("field %s failed validation on %s", fe.Field(), fe.Tag()),
			)
		}
		return commonerrors.NewValidationError("invalid input")
	}

	return nil
}
