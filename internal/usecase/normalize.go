package usecase

import (
	"time"

	"github.com/naka-gawa/issue-tenure/internal/domain"
)

// timestampLayouts are tried in order when parsing created_at values and
// the --max-date argument.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp or date. Values without a zone
// are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// Normalize remaps raw gateway records. A missing or malformed created_at
// becomes the zero time instead of failing the whole project.
func Normalize(raw []domain.RawIssue) []domain.NormalizedIssue {
	issues := make([]domain.NormalizedIssue, 0, len(raw))
	for _, r := range raw {
		createdAt, _ := ParseTimestamp(r.CreatedAt)
		issues = append(issues, domain.NormalizedIssue{
			Reporter:  r.Reporter,
			Role:      domain.Role(r.Role),
			Number:    r.Number,
			Title:     r.Title,
			CreatedAt: createdAt,
			Body:      r.Body,
			State:     domain.ParseState(r.State),
		})
	}
	return issues
}
