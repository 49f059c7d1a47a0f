// Package discovery expands user-supplied paths into the video files that make
// up a collection.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"showtool/internal/config"
	"showtool/internal/services"
)

// FindVideoFiles finds video files directly inside dir. Subdirectories are not
// descended into. Returns files sorted alphabetically by filename.
func FindVideoFiles(dir string, library config.Library) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "discovery", "stat", fmt.Sprintf("directory does not exist: %s", dir), err)
		}
		return nil, services.Wrap(services.ErrFilesystem, "discovery", "stat", dir, err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "discovery", "stat", fmt.Sprintf("%s is not a directory", dir), nil)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "discovery", "read dir", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !library.IncludeHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if !library.IsVideoFile(name) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}

	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(filepath.Base(files[i])) < strings.ToLower(filepath.Base(files[j]))
	})
	return files, nil
}

// Expand resolves each input to absolute file paths. Directories contribute
// their video files; plain files are taken as given regardless of extension.
// Duplicates are dropped, keeping first-seen order.
func Expand(inputs []string, library config.Library) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}

	for _, input := range inputs {
		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		expanded, err := config.ExpandPath(trimmed)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "discovery", "expand", trimmed, err)
		}
		abs, err := filepath.Abs(expanded)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "discovery", "expand", trimmed, err)
		}

		info, err := os.Stat(abs)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, services.Wrap(services.ErrNotFound, "discovery", "stat", fmt.Sprintf("path does not exist: %s", abs), err)
			}
			return nil, services.Wrap(services.ErrFilesystem, "discovery", "stat", abs, err)
		}
		if !info.IsDir() {
			add(abs)
			continue
		}
		files, err := FindVideoFiles(abs, library)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			add(file)
		}
	}

	if len(out) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "discovery", "expand", "no video files found", nil)
	}
	return out, nil
}
