package logs_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"showtool/internal/logs"
)

func collect(t *testing.T, path string, opts logs.TailOptions) []string {
	t.Helper()
	var lines []string
	if err := logs.Tail(context.Background(), path, opts, func(line string) {
		lines = append(lines, line)
	}); err != nil {
		t.Fatalf("Tail: %v", err)
	}
	return lines
}

func TestTailLastLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "showtool.log")
	if err := os.WriteFile(path, []byte("a\nb\nc\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	got := collect(t, path, logs.TailOptions{Limit: 2})
	if want := []string{"b", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("lines = %v, want %v", got, want)
	}
	if got := collect(t, path, logs.TailOptions{Limit: 10}); len(got) != 3 {
		t.Fatalf("expected every line, got %v", got)
	}
}

func TestTailFiltersBySession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "showtool.log")
	content := "" +
		"2026-01-01T00:00:00Z INFO rename: renamed session_id=abc from=a\n" +
		"2026-01-01T00:00:01Z INFO rename: renamed session_id=def from=b\n" +
		`{"time":"2026-01-01T00:00:02Z","level":"INFO","msg":"renamed","session_id":"abc"}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	got := collect(t, path, logs.TailOptions{Limit: 10, SessionID: "abc"})
	if len(got) != 2 {
		t.Fatalf("expected 2 lines for session abc, got %v", got)
	}
}

func TestTailMissingFile(t *testing.T) {
	got := collect(t, filepath.Join(t.TempDir(), "absent.log"), logs.TailOptions{Limit: 5})
	if len(got) != 0 {
		t.Fatalf("expected no lines, got %v", got)
	}
}

func TestTailFollowPicksUpAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "showtool.log")
	if err := os.WriteFile(path, []byte("start\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var mu sync.Mutex
	var lines []string
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- logs.Tail(ctx, path, logs.TailOptions{Limit: 1, Follow: true, Poll: 10 * time.Millisecond}, func(line string) {
			mu.Lock()
			lines = append(lines, line)
			got := len(lines)
			mu.Unlock()
			if got == 1 {
				close(started)
			}
			if got == 2 {
				cancel()
			}
		})
	}()

	select {
	case <-started:
	case <-ctx.Done():
		t.Fatal("initial line not emitted")
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	if _, err := f.WriteString("later\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	f.Close()

	if err := <-done; err != nil {
		t.Fatalf("Tail: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if want := []string{"start", "later"}; !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines = %v, want %v", lines, want)
	}
}

func TestTailFollowCompletesPartialLastLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "showtool.log")
	if err := os.WriteFile(path, []byte("a\npart"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var mu sync.Mutex
	var lines []string
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- logs.Tail(ctx, path, logs.TailOptions{Limit: 5, Follow: true, Poll: 10 * time.Millisecond}, func(line string) {
			mu.Lock()
			lines = append(lines, line)
			got := len(lines)
			mu.Unlock()
			if got == 1 {
				close(started)
			}
			if got == 2 {
				cancel()
			}
		})
	}()

	select {
	case <-started:
	case <-ctx.Done():
		t.Fatal("initial line not emitted")
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	if _, err := f.WriteString("ial\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	f.Close()

	if err := <-done; err != nil {
		t.Fatalf("Tail: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if want := []string{"a", "partial"}; !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines = %v, want %v", lines, want)
	}
}
