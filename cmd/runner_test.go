package main

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/readtrack/internal/session"
	"github.com/desertthunder/readtrack/internal/shared"
	tu "github.com/desertthunder/readtrack/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			sess := session.New(session.NewMemoryStore())

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Session:    sess,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.session != sess {
				t.Error("expected session to be set")
			}
			if runner.validator == nil {
				t.Error("expected validator to be created")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("cfg falls back to defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if got := runner.cfg().API.BaseURL; got != "http://localhost:8080/api" {
				t.Errorf("expected default base URL, got %s", got)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]int{"total_books": 3}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"total_books": 3`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]int{"total_books": 3}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if expected := `{"total_books":3}` + "\n"; output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"k": "v"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limited := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limited})

			err := runner.writeJSON(map[string]string{"k": "v"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("formats text", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("%d of %d", 3, 12); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "3 of 12" {
				t.Errorf("expected '3 of 12', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("Confirm", func(t *testing.T) {
		tests := []struct {
			name  string
			input string
			want  bool
		}{
			{"yes", "y\n", true},
			{"long yes", "YES\n", true},
			{"no", "n\n", false},
			{"empty answer", "\n", false},
			{"without newline", "y", true},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				output := &bytes.Buffer{}
				runner := NewRunner(RunnerOpts{Output: output, Input: strings.NewReader(tt.input)})

				got, err := runner.Confirm(t.Context(), "Remove it?")
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if got != tt.want {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
				if output.String() != "Remove it? [y/N] " {
					t.Errorf("unexpected prompt %q", output.String())
				}
			})
		}

		t.Run("closed input cancels", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Input: strings.NewReader("")})

			if _, err := runner.Confirm(t.Context(), "Remove it?"); err == nil {
				t.Fatal("expected an error on closed input")
			} else if !strings.Contains(err.Error(), shared.ErrCancelled.Error()) {
				t.Errorf("expected cancelled error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "auth", "books", "progress", "goals", "reviews", "dashboard", "export", "tui", "dev"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})

	t.Run("Before", func(t *testing.T) {
		t.Run("reads the config file", func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")
			content := "[api]\nbase_url = \"http://books.test/api\"\n\n[storage]\npath = \"" + filepath.Join(dir, "rt.db") + "\"\n\n[log]\nlevel = \"warn\"\n"
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}

			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output, Session: session.New(session.NewMemoryStore())})
			if err := newApp(runner).Run(t.Context(), []string{"readtrack", "-c", path, "auth", "status"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if runner.config.API.BaseURL != "http://books.test/api" {
				t.Errorf("expected base URL from file, got %s", runner.config.API.BaseURL)
			}
			if !strings.Contains(output.String(), "API: http://books.test/api") {
				t.Errorf("expected status to report the API, got %q", output.String())
			}
		})

		t.Run("missing config file uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Session: session.New(session.NewMemoryStore())})
			path := filepath.Join(t.TempDir(), "absent.toml")

			if err := newApp(runner).Run(t.Context(), []string{"readtrack", "-c", path, "auth", "status"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if runner.config.API.BaseURL != "http://localhost:8080/api" {
				t.Errorf("expected default base URL, got %s", runner.config.API.BaseURL)
			}
		})

		t.Run("env overrides the file", func(t *testing.T) {
			t.Setenv(shared.EnvAPIURL, "http://env.test/api")
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Session: session.New(session.NewMemoryStore())})
			path := filepath.Join(t.TempDir(), "absent.toml")

			if err := newApp(runner).Run(t.Context(), []string{"readtrack", "-c", path, "auth", "status"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if runner.config.API.BaseURL != "http://env.test/api" {
				t.Errorf("expected env base URL, got %s", runner.config.API.BaseURL)
			}
		})

		t.Run("rejects a non-http base URL", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: shared.DefaultConfig(), Output: &bytes.Buffer{}})

			err := newApp(runner).Run(t.Context(), []string{"readtrack", "--api-url", "ftp://nope", "auth", "status"})
			if err == nil || !strings.Contains(err.Error(), shared.ErrInvalidConfig.Error()) {
				t.Errorf("expected invalid config error, got %v", err)
			}
		})
	})

	t.Run("Setup", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(shared.EnvDBPath, filepath.Join(dir, "readtrack.db"))
		configPath := filepath.Join(dir, "config.toml")

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})
		defer runner.Close()

		if err := newApp(runner).Run(t.Context(), []string{"readtrack", "-c", configPath, "setup"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, configPath)
		tu.AssertFileExists(t, filepath.Join(dir, "readtrack.db"))
		if !strings.Contains(output.String(), "Setup complete") {
			t.Errorf("expected completion message, got %q", output.String())
		}
	})
}
