package config

import (
	"reflect"
	"testing"
)

// TestParseCSVEnv проверяет разбор списка моделей из ENV.
func TestParseCSVEnv(t *testing.T) {
	t.Setenv("AI_MODELS", " gemini-1.5-flash, ,gemini-pro ")

	got := parseCSVEnv("AI_MODELS")
	want := []string{"gemini-1.5-flash", "gemini-pro"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestParseCSVEnvMissing проверяет поведение при отсутствии переменной.
func TestParseCSVEnvMissing(t *testing.T) {
	got := parseCSVEnv("MISSING_ENV")
	if got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

// TestParseInt64EnvDefault проверяет значение по умолчанию для сида.
func TestParseInt64EnvDefault(t *testing.T) {
	got, err := parseInt64Env("MISSING_SEED", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}
