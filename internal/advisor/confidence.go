package advisor

import (
	"fmt"
	"time"

	"github.com/finsight/advisor-cli/internal/model"
)

// staleAfterMonths is the age past which an unconfirmed preference decays
// one confidence step.
const staleAfterMonths = 6

// timestampLayouts accepted for last-confirmed values, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02",
}

// EffectiveConfidence computes the trust level for a profile field at now.
// Missing metadata means low. An explicit source is always high and never
// decays. Anything else keeps its stored confidence unless last confirmed
// more than six months ago, in which case it drops exactly one step.
func EffectiveConfidence(meta *model.FieldMetadata, now time.Time) model.ConfidenceLevel {
	if meta == nil {
		return model.ConfidenceLow
	}
	if meta.Source == model.SourceExplicit {
		return model.ConfidenceHigh
	}

	conf := meta.Confidence
	if conf != model.ConfidenceHigh && conf != model.ConfidenceMedium {
		conf = model.ConfidenceLow
	}

	if isStale(meta.LastConfirmed, now) {
		return downgrade(conf)
	}
	return conf
}

// downgrade drops a confidence level one step. Low has no further to go.
func downgrade(c model.ConfidenceLevel) model.ConfidenceLevel {
	switch c {
	case model.ConfidenceHigh:
		return model.ConfidenceMedium
	case model.ConfidenceMedium:
		return model.ConfidenceLow
	default:
		return model.ConfidenceLow
	}
}

// isStale reports whether lastConfirmed parses and is older than the stale
// cutoff. Unparsable timestamps are treated as current rather than stale.
func isStale(lastConfirmed string, now time.Time) bool {
	t, ok := parseWhen(lastConfirmed)
	if !ok {
		return false
	}
	cutoff := now.AddDate(0, -staleAfterMonths, 0)
	return t.Before(cutoff)
}

func parseWhen(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// LastConfirmedPhrase renders a confirmation timestamp as a rough age for
// display: "recently", "1 month ago", "N months ago", or "over a year ago".
// Returns "" when the timestamp does not parse.
func LastConfirmedPhrase(lastConfirmed string, now time.Time) string {
	t, ok := parseWhen(lastConfirmed)
	if !ok {
		return ""
	}
	months := monthsBetween(t, now)
	switch {
	case months < 1:
		return "recently"
	case months == 1:
		return "1 month ago"
	case months < 12:
		return fmt.Sprintf("%d months ago", months)
	default:
		return "over a year ago"
	}
}

// monthsBetween counts whole calendar months from from to to, clamped at
// zero for future timestamps.
func monthsBetween(from, to time.Time) int {
	if !from.Before(to) {
		return 0
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
