package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/funkey7dan/newsroom/pkg/cli"
	"github.com/funkey7dan/newsroom/pkg/config"
)

// syncBuffer lets the test poll output while a command is still running
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var linePattern = regexp.MustCompile(`^Producer (\d+) (SPORTS|NEWS|WEATHER) (\d+)$`)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func newTestCLI() (*cli.CLI, *syncBuffer, *syncBuffer) {
	stdout := &syncBuffer{}
	stderr := &syncBuffer{}
	return cli.NewCLIWithOutput(cli.NewConfig(), stdout, stderr), stdout, stderr
}

func TestRunPipeline(t *testing.T) {
	tests := []struct {
		name      string
		config    string
		wantItems int
	}{
		{
			name:      "no producers",
			config:    "5\n",
			wantItems: 0,
		},
		{
			name:      "single producer",
			config:    "1\n3\n2\n5\n",
			wantItems: 3,
		},
		{
			name:      "two producers with blank lines",
			config:    "1\n4\n2\n\n2\n6\n1\n\n3\n",
			wantItems: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "config.txt", tt.config)
			c, stdout, _ := newTestCLI()

			if err := c.Execute([]string{"--editor-delay=0s", "--seed=7", path}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
			if got := lines[len(lines)-1]; got != "DONE" {
				t.Fatalf("expected last line DONE, got %q", got)
			}
			if got := len(lines) - 1; got != tt.wantItems {
				t.Errorf("expected %d item lines, got %d", tt.wantItems, got)
			}
			for _, line := range lines[:len(lines)-1] {
				if !linePattern.MatchString(line) {
					t.Errorf("unexpected output line %q", line)
				}
			}
		})
	}
}

func TestRunKeepsLogsOffStdout(t *testing.T) {
	path := writeConfig(t, "config.txt", "1\n2\n1\n1\n")
	c, stdout, stderr := newTestCLI()

	if err := c.Execute([]string{"-v", "debug", "--editor-delay=0s", path}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(stdout.String(), "Pipeline") {
		t.Errorf("log lines leaked to stdout: %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "Pipeline drained") {
		t.Errorf("expected debug logs on stderr, got %q", stderr.String())
	}
}

func TestRunWarnsAboutIgnoredValues(t *testing.T) {
	// Two leftover values before the screen size do not form a producer
	path := writeConfig(t, "config.txt", "1\n2\n1\n9\n9\n4\n")
	c, stdout, stderr := newTestCLI()

	if err := c.Execute([]string{"--editor-delay=0s", path}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasSuffix(stdout.String(), "DONE\n") {
		t.Errorf("expected DONE, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "Ignoring incomplete producer entry") {
		t.Errorf("expected warning on stderr, got %q", stderr.String())
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no arguments", args: nil},
		{name: "too many arguments", args: []string{"a.txt", "b.txt"}},
		{name: "validate without path", args: []string{"validate"}},
		{name: "version with argument", args: []string{"version", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, stdout, _ := newTestCLI()
			err := c.Execute(tt.args)
			if !errors.Is(err, cli.ErrUsage) {
				t.Fatalf("expected ErrUsage, got %v", err)
			}
			if stdout.String() != "" {
				t.Errorf("expected no output, got %q", stdout.String())
			}
		})
	}
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{name: "non-integer value", config: "1\nmany\n2\n5\n"},
		{name: "zero screen queue", config: "0\n"},
		{name: "zero producer queue", config: "1\n3\n0\n5\n"},
		{name: "duplicate producer", config: "1\n1\n1\n1\n1\n1\n5\n"},
		{name: "empty file", config: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "config.txt", tt.config)
			c, stdout, _ := newTestCLI()

			err := c.Execute([]string{path})
			if !errors.Is(err, config.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if stdout.String() != "" {
				t.Errorf("expected no output before failure, got %q", stdout.String())
			}
		})
	}
}

func TestMissingConfigFile(t *testing.T) {
	c, _, _ := newTestCLI()
	err := c.Execute([]string{filepath.Join(t.TempDir(), "missing.txt")})
	if err == nil {
		t.Fatal("expected error for missing config")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist in chain, got %v", err)
	}
}

func TestValidateCommand(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
producers:
  - id: 1
    items: 4
    queueSize: 2
  - id: 2
    items: 6
    queueSize: 1
screenQueueSize: 3
`)
	c, stdout, _ := newTestCLI()

	if err := c.Execute([]string{"validate", path}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{
		"2 producers, 10 items, screen queue 3",
		"producer 1: 4 items, queue 2",
		"producer 2: 6 items, queue 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got %q", want, out)
		}
	}
	if strings.Contains(out, "DONE") {
		t.Error("validate must not run the pipeline")
	}
}

func TestVersionCommand(t *testing.T) {
	cfg := cli.NewConfig()
	cfg.Version = "1.2.3"
	stdout := &syncBuffer{}
	c := cli.NewCLIWithOutput(cfg, stdout, &syncBuffer{})

	if err := c.Execute([]string{"version"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), "newsroom v1.2.3") {
		t.Errorf("unexpected version output %q", stdout.String())
	}
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("NEWSROOM_EDITOR_DELAY", "0s")
	t.Setenv("NEWSROOM_VERBOSITY", "info")

	path := writeConfig(t, "config.txt", "1\n60\n4\n8\n")
	c, stdout, stderr := newTestCLI()

	start := time.Now()
	if err := c.Execute([]string{path}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 60 items at the default 100ms keep the busiest editor busy for 2s or more
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("editor delay override ignored, run took %s", elapsed)
	}
	if !strings.HasSuffix(stdout.String(), "DONE\n") {
		t.Errorf("expected DONE, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "Pipeline starting") {
		t.Errorf("expected info logs on stderr, got %q", stderr.String())
	}
}

func TestSettingsFile(t *testing.T) {
	settings := writeConfig(t, "settings.yaml", "editor-delay: 0s\nverbosity: info\n")
	path := writeConfig(t, "config.txt", "1\n60\n4\n8\n")
	c, stdout, stderr := newTestCLI()

	start := time.Now()
	if err := c.Execute([]string{"--settings", settings, path}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("settings file ignored, run took %s", elapsed)
	}
	if !strings.HasSuffix(stdout.String(), "DONE\n") {
		t.Errorf("expected DONE, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "Pipeline starting") {
		t.Errorf("expected info logs on stderr, got %q", stderr.String())
	}
}

func TestFlagBeatsEnvironment(t *testing.T) {
	t.Setenv("NEWSROOM_VERBOSITY", "debug")

	path := writeConfig(t, "config.txt", "3\n")
	c, _, stderr := newTestCLI()

	if err := c.Execute([]string{"--verbosity=error", path}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stderr.String() != "" {
		t.Errorf("expected no logs at error level, got %q", stderr.String())
	}
}

func TestColorOutput(t *testing.T) {
	path := writeConfig(t, "config.txt", "1\n3\n1\n2\n")
	c, stdout, _ := newTestCLI()

	if err := c.Execute([]string{"--color", "--editor-delay=0s", path}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Escapes depend on whether color detects a terminal; the payload and
	// the terminal marker must survive either way.
	out := stdout.String()
	if got := strings.Count(out, "Producer 1 "); got != 3 {
		t.Errorf("expected 3 items, got %d in %q", got, out)
	}
	if !strings.HasSuffix(out, "DONE\n") {
		t.Errorf("expected DONE, got %q", out)
	}
}

func TestWatchRerunsOnChange(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping file watching test in short mode")
	}

	path := writeConfig(t, "config.txt", "1\n1\n1\n2\n")
	c, stdout, _ := newTestCLI()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- c.ExecuteContext(ctx, []string{"watch", "--editor-delay=0s", path})
	}()

	waitForDone := func(n int) {
		t.Helper()
		deadline := time.Now().Add(5 * time.Second)
		for strings.Count(stdout.String(), "DONE\n") < n {
			if time.Now().After(deadline) {
				t.Fatalf("timed out waiting for run %d, output %q", n, stdout.String())
			}
			time.Sleep(20 * time.Millisecond)
		}
	}

	waitForDone(1)

	if err := os.WriteFile(path, []byte("7\n2\n1\n2\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("chtimes failed: %v", err)
	}

	waitForDone(2)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("watch returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	if !strings.Contains(stdout.String(), "Producer 7 ") {
		t.Errorf("expected output from the rewritten config, got %q", stdout.String())
	}
}
