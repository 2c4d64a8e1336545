package usecases

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

// ResolveLimit picks the item limit for a run: the first positional argument
// when present, otherwise envDefault. Zero means export everything.
func ResolveLimit(args []string, envDefault int) (int, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		if envDefault < 0 {
			return 0, fmt.Errorf("%w: EXPORT_LIMIT=%d", domain.ErrInvalidLimit, envDefault)
		}
		return envDefault, nil
	}

	limit, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", domain.ErrInvalidLimit, args[0])
	}
	if limit < 0 {
		return 0, fmt.Errorf("%w: %d is negative", domain.ErrInvalidLimit, limit)
	}
	return limit, nil
}
