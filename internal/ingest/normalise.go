// Package ingest loads externally collected benchmark results into the SQL store.
package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jengzang/llm-benchmarks-backend/internal/trend"
)

var (
	trailingDateStamp = regexp.MustCompile(`[-_]?\d{4}-?(\d{2}(-?\d{2})?)?$`)
	trailingBuild     = regexp.MustCompile(`[-_]?\d{3,9}$`)
	separators        = regexp.MustCompile(`[-_]`)

	monthLayout   = regexp.MustCompile(`^\d{4}-\d{2}$`)
	dayLayout     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	compactLayout = regexp.MustCompile(`^\d{8}$`)
	yearLayout    = regexp.MustCompile(`^\d{4}$`)
)

// NormaliseModelName lowercases a model name and strips release stamps so
// that "GPT-4-Turbo-2024-04-09" and "gpt_4_turbo" compare equal.
func NormaliseModelName(name string) string {
	n := strings.ToLower(name)
	n = trailingDateStamp.ReplaceAllString(n, "")
	n = trailingBuild.ReplaceAllString(n, "")
	n = separators.ReplaceAllString(n, " ")
	return strings.TrimSpace(n)
}

// NormaliseDate converts YYYY-MM, YYYY-MM-DD, YYYYMMDD or YYYY to YYYY-MM
func NormaliseDate(date string) (string, error) {
	var out string
	switch {
	case monthLayout.MatchString(date):
		out = date
	case dayLayout.MatchString(date):
		out = date[:7]
	case compactLayout.MatchString(date):
		out = date[:4] + "-" + date[4:6]
	case yearLayout.MatchString(date):
		out = date + "-01"
	default:
		return "", fmt.Errorf("unrecognised date format: %q", date)
	}

	if _, err := trend.ParseMonth(out); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return out, nil
}
