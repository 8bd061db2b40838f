package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/nao1215/wikirace/internal/log"
)

func TestHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("missing database", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--db-dir", t.TempDir()})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "No searches yet") {
			t.Errorf("unexpected output %q", out.String())
		}
	})

	t.Run("lists recorded searches", func(t *testing.T) {
		t.Parallel()

		ws := newWikiServer(t, diamond)
		cfg := testConfig(t, ws.URL, "A", "D")
		logger := log.NewLogger(io.Discard, false, false)
		if err := runFind(context.Background(), cfg, logger, io.Discard); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var out bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--db-dir", cfg.DBDir})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := out.String()
		for _, want := range []string{"START", "FINISH", "Link cache: 4 articles, 3 links, 2 expanded"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected %q in output:\n%s", want, output)
			}
		}
		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) < 2 || !strings.Contains(lines[1], "A") || !strings.Contains(lines[1], "D") {
			t.Errorf("expected a row for A -> D:\n%s", output)
		}
		if !strings.Contains(lines[0], "DATE") || !strings.Contains(lines[0], "ELAPSED") {
			t.Errorf("expected the header on the first line:\n%s", output)
		}
		if strings.ContainsAny(output, "|│─") {
			t.Errorf("expected a borderless table:\n%s", output)
		}
	})

	t.Run("markdown table", func(t *testing.T) {
		t.Parallel()

		ws := newWikiServer(t, diamond)
		cfg := testConfig(t, ws.URL, "A", "Z")
		logger := log.NewLogger(io.Discard, false, false)
		_ = runFind(context.Background(), cfg, logger, io.Discard)

		var out bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--db-dir", cfg.DBDir, "--markdown"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := out.String()
		if !strings.Contains(output, "# wikirace history") {
			t.Errorf("expected heading:\n%s", output)
		}
		if !strings.Contains(output, "| DATE") {
			t.Errorf("expected table:\n%s", output)
		}
	})
}
