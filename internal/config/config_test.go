package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"showtool/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "showtool")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.JournalPath() != filepath.Join(wantState, "journal.db") {
		t.Fatalf("unexpected journal path: %q", cfg.JournalPath())
	}
	if cfg.Ordering.Relation != config.OrderingLiteral {
		t.Fatalf("expected literal ordering by default, got %q", cfg.Ordering.Relation)
	}
	if cfg.Rename.SuffixLength != 6 {
		t.Fatalf("expected suffix length 6, got %d", cfg.Rename.SuffixLength)
	}
	if !cfg.Rename.RollbackOnFailure {
		t.Fatal("expected rollback enabled by default")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "showtool.toml")

	type payload struct {
		Paths struct {
			StateDir string `toml:"state_dir"`
		} `toml:"paths"`
		Library struct {
			VideoExtensions []string `toml:"video_extensions"`
		} `toml:"library"`
		Ordering struct {
			Relation string `toml:"relation"`
		} `toml:"ordering"`
		Rename struct {
			SuffixLength int `toml:"suffix_length"`
		} `toml:"rename"`
	}
	custom := payload{}
	custom.Paths.StateDir = filepath.Join(tempDir, "state")
	custom.Library.VideoExtensions = []string{"MKV", ".Mp4", "mkv"}
	custom.Ordering.Relation = "Season-First"
	custom.Rename.SuffixLength = 8
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.StateDir != filepath.Join(tempDir, "state") {
		t.Fatalf("unexpected state dir %q", cfg.Paths.StateDir)
	}
	if got := strings.Join(cfg.Library.VideoExtensions, ","); got != ".mkv,.mp4" {
		t.Fatalf("expected normalized extensions, got %q", got)
	}
	if cfg.Ordering.Relation != config.OrderingSeasonFirst {
		t.Fatalf("expected season_first ordering, got %q", cfg.Ordering.Relation)
	}
	if cfg.Rename.SuffixLength != 8 {
		t.Fatalf("expected suffix length 8, got %d", cfg.Rename.SuffixLength)
	}
	if !cfg.Library.IsVideoFile("Show.S01E01.MKV") {
		t.Fatal("expected upper-case extension to count as video")
	}
	if cfg.Library.IsVideoFile("notes.txt") {
		t.Fatal("did not expect txt to count as video")
	}
}

func TestEnvVarOverridesLogLevel(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SHOWTOOL_LOG_LEVEL", "DEBUG")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected debug level from env, got %q", cfg.Logging.Level)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.StateDir, "showtool") {
		t.Fatalf("expected state dir to contain showtool, got %q", cfg.Paths.StateDir)
	}
	if cfg.Rename.SuffixLength != config.Default().Rename.SuffixLength {
		t.Fatalf("sample suffix length drifted from defaults: %d", cfg.Rename.SuffixLength)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Rename.SuffixLength = 1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for short suffix")
	}

	cfg = config.Default()
	cfg.Ordering.Relation = "alphabetical"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown ordering relation")
	}

	cfg = config.Default()
	cfg.Library.VideoExtensions = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when no video extensions are configured")
	}

	cfg = config.Default()
	cfg.Rename.LockTimeoutSeconds = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative lock timeout")
	}

	cfg = config.Default()
	cfg.Logging.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}
