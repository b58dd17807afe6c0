package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	commonerrors "github.com/deep-thoughts/backend/internal/common/errors"
	"github.com/deep-thoughts/backend/internal/common/logger"
)

func TestTraceIDGeneratedWhenAbsent(t *testing.T) {
	var fromCtx string
	handler := TraceIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = TraceID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	header := rec.Header().Get(TraceIDHeader)
	if header == "" {
		t.Fatal("expected a generated trace id in the response header")
	}
	if fromCtx != header {
		t.Errorf("context trace id = %q, header = %q, want same", fromCtx, header)
	}
}

func TestTraceIDEchoesClientSupplied(t *testing.T) {
	var fromCtx string
	handler := TraceIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = TraceID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(TraceIDHeader, "client-trace-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(TraceIDHeader); got != "client-trace-1" {
		t.Errorf("response header = %q, want client id echoed", got)
	}
	if fromCtx != "client-trace-1" {
		t.Errorf("context trace id = %q, want client id", fromCtx)
	}
}

func TestTraceIDOutsideMiddlewareIsEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	if got := TraceID(req.Context()); got != "" {
		t.Errorf("TraceID without middleware = %q, want empty", got)
	}
}

func TestHandleErrorIncludesTraceID(t *testing.T) {
	handler := TraceIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleError(w, r, commonerrors.ErrFriendNotFound, logger.NewTest())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/op", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var envelope ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if envelope.Code != "FRIEND_NOT_FOUND" {
		t.Errorf("code = %q, want FRIEND_NOT_FOUND", envelope.Code)
	}
	if envelope.TraceID == "" || envelope.TraceID != rec.Header().Get(TraceIDHeader) {
		t.Errorf("envelope trace id = %q, header = %q, want matching non-empty ids",
			envelope.TraceID, rec.Header().Get(TraceIDHeader))
	}
}

func TestRecoveryWritesErrorEnvelopeWithTraceID(t *testing.T) {
	handler := TraceIDMiddleware(RecoveryMiddleware(logger.NewTest())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}),
	))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/op", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var envelope ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if envelope.Code != "INTERNAL" {
		t.Errorf("code = %q, want INTERNAL", envelope.Code)
	}
	if envelope.TraceID == "" {
		t.Error("expected a trace id in the recovery envelope")
	}
}
