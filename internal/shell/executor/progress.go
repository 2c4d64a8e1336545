package executor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

// progressTag starts a structured progress line: "PROGRESS <kind> <message>"
const progressTag = "PROGRESS"

// legacyMarkers maps free-text markers printed by older exporter builds onto progress kinds.
// Checked in order; the first match wins.
var legacyMarkers = []struct {
	marker string
	kind   domain.ProgressKind
}{
	{"Export complete", domain.ProgressComplete},
	{"Exporting", domain.ProgressItem},
	{"✓", domain.ProgressWritten},
	{"Found", domain.ProgressDiscovered},
}

var firstNumber = regexp.MustCompile(`\d+`)

// ParseProgress classifies one diagnostic line. Lines that are neither tagged
// nor carry a known marker are not progress and return false.
func ParseProgress(line string) (domain.ProgressEvent, bool) {
	line = strings.TrimRight(line, "\r\n")
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return domain.ProgressEvent{}, false
	}

	if event, ok := parseTagged(trimmed); ok {
		return event, true
	}

	for _, m := range legacyMarkers {
		if strings.Contains(line, m.marker) {
			return newProgressEvent(m.kind, trimmed), true
		}
	}

	return domain.ProgressEvent{}, false
}

func parseTagged(line string) (domain.ProgressEvent, bool) {
	fields := strings.SplitN(line, " ", 3)
	if len(fields) < 2 || fields[0] != progressTag || !domain.IsValidProgressKind(fields[1]) {
		return domain.ProgressEvent{}, false
	}

	message := ""
	if len(fields) == 3 {
		message = strings.TrimSpace(fields[2])
	}
	return newProgressEvent(domain.ProgressKind(fields[1]), message), true
}

func newProgressEvent(kind domain.ProgressKind, message string) domain.ProgressEvent {
	event := domain.ProgressEvent{Kind: kind, Message: message}
	if kind == domain.ProgressDiscovered {
		if n, err := strconv.Atoi(firstNumber.FindString(message)); err == nil {
			event.Count = n
		}
	}
	return event
}
