package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const defaultPollInterval = 250 * time.Millisecond

// TailOptions controls Tail.
type TailOptions struct {
	// Limit caps the initial backlog. Zero or less starts at the end of the file.
	Limit int
	// SessionID keeps only lines logged for that commit session.
	SessionID string
	Follow    bool
	Poll      time.Duration
}

// Tail emits the last opts.Limit matching lines of path. With Follow it keeps
// emitting appended lines until ctx is done, which is not reported as an error.
// A missing file yields no lines.
func Tail(ctx context.Context, path string, opts TailOptions, emit func(string)) error {
	match := sessionMatcher(opts.SessionID)

	lines, offset, err := readLastLines(path, opts.Limit, match)
	if err != nil {
		return err
	}
	for _, line := range lines {
		emit(line)
	}
	if !opts.Follow {
		return nil
	}

	poll := opts.Poll
	if poll <= 0 {
		poll = defaultPollInterval
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		next, newOffset, err := readForward(path, offset, match)
		if err != nil {
			return err
		}
		offset = newOffset
		for _, line := range next {
			emit(line)
		}
	}
}

func sessionMatcher(sessionID string) func(string) bool {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return func(string) bool { return true }
	}
	console := "session_id=" + sessionID
	jsonKey := `"session_id":"` + sessionID + `"`
	return func(line string) bool {
		return strings.Contains(line, console) || strings.Contains(line, jsonKey)
	}
}

// readLastLines returns the last limit matching lines and the offset just past
// the last complete line, so a line still being written is left for follow.
func readLastLines(path string, limit int, match func(string) bool) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	var ring []string
	if limit > 0 {
		ring = make([]string, limit)
	}
	count, idx := 0, 0
	offset, err := readCompleteLines(file, 0, func(line string) {
		if limit <= 0 || !match(line) {
			return
		}
		ring[idx] = line
		idx = (idx + 1) % limit
		if count < limit {
			count++
		}
	})
	if err != nil {
		return nil, 0, err
	}

	lines := make([]string, count)
	if count == limit {
		for i := range count {
			lines[i] = ring[(idx+i)%limit]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, offset, nil
}

// readForward returns complete lines written after offset. A truncated file
// is read again from the start.
func readForward(path string, offset int64, match func(string) bool) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, offset, fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() < offset {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("seek log file: %w", err)
	}

	var lines []string
	next, err := readCompleteLines(file, offset, func(line string) {
		if match(line) {
			lines = append(lines, line)
		}
	})
	if err != nil {
		return nil, offset, err
	}
	return lines, next, nil
}

// readCompleteLines passes each newline-terminated line to visit and returns
// offset advanced past them. A partial line stays unread until its newline
// arrives.
func readCompleteLines(r io.Reader, offset int64, visit func(string)) (int64, error) {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return offset, nil
			}
			return offset, fmt.Errorf("read log file: %w", err)
		}
		offset += int64(len(line))
		visit(strings.TrimRight(line, "\r\n"))
	}
}
