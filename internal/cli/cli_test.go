package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestPlayThenScoresOnSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "calquiz.db")
	cfgPath := writeConfig(t, "log:\n  level: error\nleaderboard:\n  backend: sqlite\nsqlite:\n  path: "+dbPath+"\n")

	var out bytes.Buffer
	play := newRootCmd()
	play.SetArgs([]string{"play", "--config", cfgPath})
	play.SetIn(strings.NewReader("x\nx\nx\nAnn\nn\n"))
	play.SetOut(&out)
	if err := play.Execute(); err != nil {
		t.Fatalf("play: %v", err)
	}
	if !strings.Contains(out.String(), "Game Over!") {
		t.Fatalf("expected game over, got:\n%s", out.String())
	}

	out.Reset()
	scores := newRootCmd()
	scores.SetArgs([]string{"scores", "--config", cfgPath})
	scores.SetOut(&out)
	if err := scores.Execute(); err != nil {
		t.Fatalf("scores: %v", err)
	}
	if !strings.Contains(out.String(), " 1. Ann") {
		t.Fatalf("expected Ann in leaderboard, got:\n%s", out.String())
	}
}

func TestScoresEmptyOnMemory(t *testing.T) {
	cfgPath := writeConfig(t, "log:\n  level: error\nleaderboard:\n  backend: memory\n")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"scores", "--config", cfgPath})
	cmd.SetOut(&out)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("scores: %v", err)
	}
	if !strings.Contains(out.String(), "No scores yet.") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestUnknownBackendFails(t *testing.T) {
	cfgPath := writeConfig(t, "leaderboard:\n  backend: floppy\n")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"scores", "--config", cfgPath})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestPortIsLocalToStart(t *testing.T) {
	root := newRootCmd()
	if root.PersistentFlags().Lookup("port") != nil {
		t.Fatalf("port should not be a persistent flag")
	}
	start, _, err := root.Find([]string{"start"})
	if err != nil {
		t.Fatalf("find start: %v", err)
	}
	if start.LocalFlags().Lookup("port") == nil {
		t.Fatalf("expected start to define --port")
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Fatalf("expected persistent --config")
	}
}

func TestServerStopsOnContextCancel(t *testing.T) {
	cfgPath := writeConfig(t, "log:\n  level: error\nleaderboard:\n  backend: memory\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runServer(ctx, cfgPath, "0"); err != nil {
		t.Fatalf("expected clean shutdown, got %v", err)
	}
}
