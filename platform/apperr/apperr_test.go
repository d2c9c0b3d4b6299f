package apperr

import (
	"net/http"
	"testing"
)

func TestErrorIncludesOp(t *testing.T) {
	err := Validation("invalid note type").WithOp("notes.add")
	if got, want := err.Error(), "notes.add: invalid note type"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if err.Kind != KindValidation {
		t.Errorf("Kind = %v, want KindValidation", err.Kind)
	}
}

func TestErrorWithoutOp(t *testing.T) {
	err := NotFound("lead not found")
	if got, want := err.Error(), "lead not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWithDetailsCarriesPayload(t *testing.T) {
	err := Validation("invalid sort order").WithDetails("expected priority or recent")
	details, ok := err.Details.(string)
	if !ok || details != "expected priority or recent" {
		t.Errorf("Details = %v, want the attached string", err.Details)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindForbidden, http.StatusForbidden},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindInternal, http.StatusInternalServerError},
		{KindUnknown, http.StatusBadRequest},
	}
	for _, tc := range cases {
		if got := (&Error{Kind: tc.kind}).HTTPStatus(); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.kind, got, tc.want)
		}
	}
}
