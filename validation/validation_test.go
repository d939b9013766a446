package validation

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/providerkit/errors"
)

type entry struct {
	Name     string `mapstructure:"name" validate:"required"`
	Priority string `mapstructure:"priority" validate:"omitempty,oneof=low medium high"`
}

type holder struct {
	Entries []entry `mapstructure:"providers" validate:"dive"`
	Retries int     `mapstructure:"max_attempts" validate:"gte=0"`
}

func TestValidate_Valid(t *testing.T) {
	h := holder{Entries: []entry{{Name: "a", Priority: "high"}, {Name: "b"}}}
	if err := Validate(h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ReportsMapstructurePaths(t *testing.T) {
	h := holder{Entries: []entry{{Name: ""}, {Name: "b", Priority: "urgent"}}, Retries: -1}
	err := Validate(h)
	if err == nil {
		t.Fatal("expected validation error")
	}

	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	for _, want := range []string{"providers[0].name: is required", "providers[1].priority: must be one of", "max_attempts: must be greater"} {
		if !strings.Contains(appErr.Message, want) {
			t.Errorf("expected %q in %q", want, appErr.Message)
		}
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 3 {
		t.Errorf("expected 3 field errors, got %v", appErr.Details["fields"])
	}
}

func TestRegisterValidation(t *testing.T) {
	type tagged struct {
		Value string `mapstructure:"value" validate:"even_len"`
	}
	err := RegisterValidation("even_len", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String())%2 == 0
	})
	if err != nil {
		t.Fatalf("RegisterValidation failed: %v", err)
	}
	if err := Validate(tagged{Value: "ab"}); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
	if err := Validate(tagged{Value: "abc"}); err == nil {
		t.Error("expected custom tag to fail")
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Name":             "name",
		"ReadinessTimeout": "readiness_timeout",
		"already":          "already",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
