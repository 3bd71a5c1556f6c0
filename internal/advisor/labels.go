package advisor

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Label tables for the foundational enums. Keys are normalized tokens,
// values are the phrases rendered into the context.
var philosophyLabels = map[string]string{
	"fire":        "FIRE movement (financial independence, retire early)",
	"dave_ramsey": "Dave Ramsey approach (debt-free living, baby steps)",
	"bogleheads":  "Bogleheads (low-cost index investing)",
	"minimalist":  "minimalist (intentional low spending)",
	"balanced":    "balanced (no strict system)",
}

var riskLabels = map[string]string{
	"conservative": "conservative (prioritizes stability over returns)",
	"moderate":     "moderate (balances growth and safety)",
	"aggressive":   "aggressive (accepts volatility for growth)",
}

var goalLabels = map[string]string{
	"debt_free":      "becoming debt-free",
	"emergency_fund": "building an emergency fund",
	"buy_home":       "saving to buy a home",
	"retire_early":   "retiring early",
	"build_wealth":   "building long-term wealth",
	"stability":      "reaching month-to-month stability",
}

var timelineLabels = map[string]string{
	"short_term":  "short term (under a year)",
	"medium_term": "medium term (1-5 years)",
	"long_term":   "long term (5+ years)",
}

var lifeStageLabels = map[string]string{
	"student":      "student",
	"early_career": "early career",
	"mid_career":   "mid career",
	"family":       "raising a family",
	"late_career":  "late career",
	"retired":      "retired",
}

var emergencyFundLabels = map[string]string{
	"none":     "no emergency fund yet",
	"building": "building an emergency fund",
	"partial":  "partially funded emergency fund",
	"adequate": "adequate emergency fund (3-6 months of expenses)",
	"robust":   "robust emergency fund (6+ months of expenses)",
}

var titleCaser = cases.Title(language.English)

// normalizeToken lowercases and trims an enum token for table lookup and
// rule matching.
func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// labelFor resolves a token against a label table. Unknown tokens fall back
// to a humanized form of the raw value so free-text entries still render.
func labelFor(table map[string]string, raw string) string {
	if label, ok := table[normalizeToken(raw)]; ok {
		return label
	}
	return humanizeToken(raw)
}

// humanizeToken turns a token like "custom_plan" into "Custom Plan".
func humanizeToken(raw string) string {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), "_", " ")
	if cleaned == "" {
		return ""
	}
	return titleCaser.String(cleaned)
}

func philosophyLabel(raw string) string {
	return labelFor(philosophyLabels, raw)
}

func riskToleranceLabel(raw string) string {
	return labelFor(riskLabels, raw)
}

func goalLabel(raw string) string {
	return labelFor(goalLabels, raw)
}

func timelineLabel(raw string) string {
	return labelFor(timelineLabels, raw)
}

func lifeStageLabel(raw string) string {
	return labelFor(lifeStageLabels, raw)
}

func emergencyFundLabel(raw string) string {
	return labelFor(emergencyFundLabels, raw)
}
