package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteMapsCodesToStatuses(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeUpstreamTimeout, http.StatusGatewayTimeout},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		Write(rec, New(tc.code, "message"))
		if rec.Code != tc.want {
			t.Errorf("code %q: expected status %d, got %d", tc.code, tc.want, rec.Code)
		}

		var body struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("code %q: decode body: %v", tc.code, err)
		}
		if body.Error != "message" {
			t.Errorf("code %q: expected message surfaced, got %q", tc.code, body.Error)
		}
	}
}

func TestWriteHidesUnclassifiedDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, errors.New("redis: connection refused at 10.0.0.5"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "An unexpected error occurred" {
		t.Errorf("internal detail leaked: %q", body.Error)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeNotFound, "Repository not found", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped error should match its cause")
	}

	var apiErr *Error
	if !errors.As(fmt.Errorf("outer: %w", err), &apiErr) {
		t.Error("errors.As should find *Error through wrapping")
	}
}
