package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found", detailsOK: true},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "record already exists", detailsOK: true},
		{code: CodeInsufficientStock, status: http.StatusUnprocessableEntity, publicMsg: "insufficient stock", detailsOK: true},
		{code: CodeStorage, status: http.StatusInternalServerError, publicMsg: "storage unavailable"},
		{code: CodeRender, status: http.StatusInternalServerError, publicMsg: "document rendering failed"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error"},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable {
			t.Fatalf("code %s should never be retryable", tt.code)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing name")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing name" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "name"}
	base.WithDetails(detail)
	if got, ok := base.Details().(map[string]any); !ok || got["field"] != "name" {
		t.Fatalf("expected details to be attached, got %v", base.Details())
	}

	cause := stdErrors.New("disk full")
	wrapped := Wrap(CodeStorage, cause, "save medicines")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("wrapped error should unwrap to cause")
	}
	if !strings.Contains(wrapped.Error(), "disk full") {
		t.Fatalf("expected cause in message, got %q", wrapped.Error())
	}

	if Wrap(CodeStorage, nil, "nothing").Unwrap() != nil {
		t.Fatalf("wrap of nil cause should not carry a cause")
	}
}

func TestAsAndCodeOf(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeNotFound, "patient not found"))
	if got := As(err); got == nil || got.Code() != CodeNotFound {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
	if CodeOf(stdErrors.New("plain")) != CodeInternal {
		t.Fatalf("untyped errors should map to internal")
	}
	if !Is(err, CodeNotFound) {
		t.Fatalf("expected Is to match wrapped code")
	}
	if Is(nil, CodeNotFound) {
		t.Fatalf("nil error should not match any code")
	}
}

func TestDumpIncludesChainAndPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "collections_pkey", TableName: "collections", Message: "duplicate key"}
	err := Wrap(CodeStorage, fmt.Errorf("save: %w", pgErr), "persist collection")

	d := Dump(err)
	if d.Code != CodeStorage || d.Message != "persist collection" {
		t.Fatalf("unexpected typed fields %+v", d)
	}
	if len(d.Chain) != 3 {
		t.Fatalf("expected chain of 3, got %d: %v", len(d.Chain), d.Chain)
	}
	if d.PGCode != "23505" || d.PGTable != "collections" || d.PGConstraint != "collections_pkey" {
		t.Fatalf("unexpected postgres fields %+v", d)
	}

	if empty := Dump(nil); empty.TopMessage != "" || empty.Chain != nil {
		t.Fatalf("expected empty dump for nil, got %+v", empty)
	}
}
