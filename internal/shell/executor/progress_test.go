package executor

import (
	"testing"

	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

func TestParseProgress(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		ok      bool
		kind    domain.ProgressKind
		message string
		count   int
	}{
		{"tagged item", "PROGRESS item Cowboy Bebop\n", true, domain.ProgressItem, "Cowboy Bebop", 0},
		{"tagged written", "PROGRESS written Cowboy Bebop", true, domain.ProgressWritten, "Cowboy Bebop", 0},
		{"tagged complete without message", "PROGRESS complete", true, domain.ProgressComplete, "", 0},
		{"tagged discovered", "PROGRESS discovered 250 titles", true, domain.ProgressDiscovered, "250 titles", 250},
		{"unknown tagged kind is not progress", "PROGRESS spinning", false, "", "", 0},
		{"legacy complete", "Export complete", true, domain.ProgressComplete, "Export complete", 0},
		{"legacy item", "Exporting Mushishi...", true, domain.ProgressItem, "Exporting Mushishi...", 0},
		{"legacy written", "  ✓ Mushishi\r\n", true, domain.ProgressWritten, "✓ Mushishi", 0},
		{"legacy discovered", "Found 12 anime", true, domain.ProgressDiscovered, "Found 12 anime", 12},
		{"legacy discovered without number", "Found nothing new", true, domain.ProgressDiscovered, "Found nothing new", 0},
		{"complete wins over item", "Exporting done: Export complete", true, domain.ProgressComplete, "Exporting done: Export complete", 0},
		{"plain diagnostics", "warning: slow response", false, "", "", 0},
		{"blank line", "   \n", false, "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, ok := ParseProgress(tt.line)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if !ok {
				return
			}
			if event.Kind != tt.kind {
				t.Errorf("Expected kind %s, got %s", tt.kind, event.Kind)
			}
			if event.Message != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, event.Message)
			}
			if event.Count != tt.count {
				t.Errorf("Expected count %d, got %d", tt.count, event.Count)
			}
		})
	}
}
