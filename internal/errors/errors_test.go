package errors

import (
	"bytes"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
)

func TestBodotError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *BodotError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "config (fatal): failed to load config: file not found",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestBodotError_WithContext(t *testing.T) {
	err := New(CategoryEngine, SeverityWarning, "export failed").
		WithContext("preset", "Linux").
		WithContext("exit_code", 3)

	if err.Context == nil {
		t.Fatal("Context should not be nil")
	}
	if err.Context["preset"] != "Linux" {
		t.Errorf("Context[preset] = %v, want Linux", err.Context["preset"])
	}
	if err.Context["exit_code"] != 3 {
		t.Errorf("Context[exit_code] = %v, want 3", err.Context["exit_code"])
	}
}

func TestIsCategory(t *testing.T) {
	configErr := New(CategoryConfig, SeverityFatal, "config error")
	wrapped := fmt.Errorf("outer: %w", NoPresetsFound(nil))
	standardErr := fmt.Errorf("standard error")

	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		expected bool
	}{
		{"config error matches config category", configErr, CategoryConfig, true},
		{"config error doesn't match engine category", configErr, CategoryEngine, false},
		{"wrapped precondition error is found", wrapped, CategoryPrecondition, true},
		{"standard error doesn't match any category", standardErr, CategoryConfig, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsCategory(test.err, test.category); got != test.expected {
				t.Errorf("IsCategory() = %v, want %v", got, test.expected)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	t.Run("UnknownSetting", func(t *testing.T) {
		err := UnknownSetting("Colour")
		if err.Category != CategoryValidation {
			t.Errorf("Category = %v, want %v", err.Category, CategoryValidation)
		}
		if err.Message != "'Colour' is not configurable or it doesn't exist" {
			t.Errorf("Message = %q", err.Message)
		}
	})

	t.Run("EngineNotFound keeps cause", func(t *testing.T) {
		cause := fmt.Errorf("no such file")
		err := EngineNotFound("/opt/godot", cause)
		if !stdErrors.Is(err, cause) {
			t.Error("cause should be reachable with errors.Is")
		}
		if err.Context["engine"] != "/opt/godot" {
			t.Errorf("Context[engine] = %v", err.Context["engine"])
		}
	})

	t.Run("OutputExists", func(t *testing.T) {
		err := OutputExists("out/1.0.0")
		if err.Category != CategoryPrecondition {
			t.Errorf("Category = %v, want %v", err.Category, CategoryPrecondition)
		}
	})
}

func TestCLIErrorAdapter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"validation", MissingArgument("setting"), 2, "missing config setting"},
		{"precondition", ConfigNotFound("bodot.config"), 3, "No config found in current directory"},
		{"engine", ExportFailed("Linux", 1), 9, "engine: export failed for preset Linux"},
		{"plain", fmt.Errorf("boom"), 1, "Error: boom"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var out bytes.Buffer
			exitCode := -1
			adapter := NewCLIErrorAdapter(false, logger).WithOutput(&out, func(c int) { exitCode = c })

			adapter.HandleError(test.err)

			if exitCode != test.code {
				t.Errorf("exit code = %d, want %d", exitCode, test.code)
			}
			if out.String() != test.message+"\n" {
				t.Errorf("message = %q, want %q", out.String(), test.message+"\n")
			}
		})
	}

	t.Run("nil error does nothing", func(t *testing.T) {
		called := false
		adapter := NewCLIErrorAdapter(false, logger).WithOutput(io.Discard, func(int) { called = true })
		adapter.HandleError(nil)
		if called {
			t.Error("exit should not be called for nil error")
		}
	})
}
