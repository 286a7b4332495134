package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected", detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
		{code: CodeStorage, status: http.StatusBadGateway, publicMsg: "file storage failed", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
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

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("bucket offline")
	err := Wrap(CodeStorage, cause, "upload failed")
	if !stdErrors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be reachable")
	}
	outer := fmt.Errorf("save brand: %w", err)
	if !Is(outer, CodeStorage) {
		t.Fatalf("expected storage code through fmt wrapping")
	}
	if Is(outer, CodeValidation) {
		t.Fatalf("unexpected validation match")
	}
}

func TestValidationDetails(t *testing.T) {
	err := Validation("name is required", map[string]string{"name": "required"})
	details, ok := err.Details().(map[string]string)
	if !ok || details["name"] != "required" {
		t.Fatalf("unexpected details %#v", err.Details())
	}
	if Validation("bare", nil).Details() != nil {
		t.Fatalf("expected nil details when no fields supplied")
	}
}

func TestLogFieldsCapturesPostgresDiagnostics(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "brands_slug_key", TableName: "brands"}
	err := Wrap(CodeConflict, pgErr, "slug taken")

	fields := LogFields(err)
	if fields["error_code"] != CodeConflict {
		t.Fatalf("expected conflict code, got %v", fields["error_code"])
	}
	if fields["db_code"] != "23505" || fields["db_constraint"] != "brands_slug_key" || fields["db_table"] != "brands" {
		t.Fatalf("unexpected db fields %#v", fields)
	}
	if _, ok := fields["db_column"]; ok {
		t.Fatalf("empty diagnostics should be omitted")
	}
	if chain, _ := fields["error_chain"].([]string); len(chain) != 2 {
		t.Fatalf("expected chain of 2, got %#v", fields["error_chain"])
	}
}

func TestLogFieldsPlainError(t *testing.T) {
	fields := LogFields(fmt.Errorf("boom"))
	if fields["error"] != "boom" {
		t.Fatalf("unexpected fields %#v", fields)
	}
	if _, ok := fields["error_chain"]; ok {
		t.Fatalf("single error should not carry a chain")
	}
}
