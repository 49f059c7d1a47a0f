package preflight

import (
	"strings"

	"showtool/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll checks the state and log directories plus every show directory.
func RunAll(cfg *config.Config, showDirs ...string) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	seen := make(map[string]struct{}, len(showDirs))
	for _, dir := range showDirs {
		if _, ok := seen[dir]; ok || strings.TrimSpace(dir) == "" {
			continue
		}
		seen[dir] = struct{}{}
		results = append(results, CheckDirectoryAccess("Show directory", dir))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Summary joins failed results into a single line.
func Summary(results []Result) string {
	parts := make([]string, 0, len(results))
	for _, r := range Failed(results) {
		parts = append(parts, r.Name+": "+r.Detail)
	}
	return strings.Join(parts, "; ")
}
