package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/lnmedico/lnmedico-backend/pkg/errors"
)

type samplePayload struct {
	Name     string `json:"name" validate:"required,notblank"`
	Quantity int    `json:"quantity" validate:"gt=0"`
	Gender   string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
}

func newRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestDecodeJSONBody(t *testing.T) {
	var payload samplePayload
	if err := DecodeJSONBody(newRequest(`{"name":"Paracetamol","quantity":3}`), &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Name != "Paracetamol" || payload.Quantity != 3 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	var payload samplePayload
	err := DecodeJSONBody(newRequest(`{"name":"x","quantity":1,"extra":true}`), &payload)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyFieldDetails(t *testing.T) {
	var payload samplePayload
	err := DecodeJSONBody(newRequest(`{"name":"  ","quantity":0,"gender":"x"}`), &payload)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if details["name"] != "must not be blank" {
		t.Fatalf("unexpected name detail %q", details["name"])
	}
	if details["quantity"] != "must be greater than 0" {
		t.Fatalf("unexpected quantity detail %q", details["quantity"])
	}
	if !strings.HasPrefix(details["gender"], "must be one of") {
		t.Fatalf("unexpected gender detail %q", details["gender"])
	}
}

func TestDecodeJSONBodyRequiresBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	var payload samplePayload
	if err := DecodeJSONBody(req, &payload); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  Paracetamol  ", 4); got != "Para" {
		t.Fatalf("unexpected sanitized value %q", got)
	}
	if got := SanitizeString(" x ", 0); got != "x" {
		t.Fatalf("unexpected sanitized value %q", got)
	}
	if got := SanitizeString("Asha   \t Rao", 0); got != "Asha Rao" {
		t.Fatalf("expected whitespace collapsed, got %q", got)
	}
	if got := SanitizeString("Müller", 2); got != "Mü" {
		t.Fatalf("expected rune-safe truncation, got %q", got)
	}
}
