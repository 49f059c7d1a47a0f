package main

import (
	"strings"
	"testing"
)

func TestRenderTableKeepsFooterCase(t *testing.T) {
	out := renderTable(tableSpec{
		headers: []string{"#", "Filename"},
		aligns:  []columnAlignment{alignRight, alignLeft},
		rows:    [][]string{{"1", "show.s01e01.mkv"}},
		footer:  []string{"", "1 file(s)"},
	})
	requireContains(t, out, "1 file(s)")
	requireNotContains(t, out, "FILE(S)")
	requireContains(t, out, "show.s01e01.mkv")
	if !strings.Contains(out, "FILENAME") && !strings.Contains(out, "Filename") {
		t.Fatalf("expected header in output:\n%s", out)
	}
}

func TestRenderTableWithoutHeaders(t *testing.T) {
	if out := renderTable(tableSpec{}); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}
