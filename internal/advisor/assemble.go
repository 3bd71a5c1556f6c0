// Package advisor builds the confidence-layered context block that grounds
// the language model's financial advice. Stored preferences render by trust
// level, session statements shadow stored defaults, and budget-derived
// signals are kept separate from anything the user actually said.
package advisor

import (
	"fmt"
	"strings"
	"time"

	"github.com/finsight/advisor-cli/internal/model"
)

// BuildLayeredContextSection assembles the full layered context. All inputs
// are optional; missing ones simply produce fewer sections. now drives
// staleness so output is reproducible under test.
func BuildLayeredContextSection(hydrated *model.HydratedFoundationalContext, plain *model.FoundationalContext, profile *model.AccountProfile, budget *model.UnifiedBudgetModel, userQuery string, now time.Time) model.LayeredContextOutput {
	var out model.LayeredContextOutput

	var meta model.ProfileMetadata
	if profile != nil {
		meta = profile.Metadata
	}
	accountFields := BuildAccountContextFields(profile, meta, now)
	out.HasAccountContext = len(accountFields) > 0

	sessionFields := BuildSessionContextFields(hydrated, plain)
	accountFields = dropShadowed(accountFields, sessionFields)

	// Partition what survives by effective confidence; low is dropped.
	var high, medium []model.ContextField
	for _, f := range accountFields {
		switch f.Confidence {
		case model.ConfidenceHigh:
			high = append(high, f)
		case model.ConfidenceMedium:
			medium = append(medium, f)
		}
	}

	patterns := ExtractObservedPatterns(budget)
	tensions := DetectTensions(profile, foundationalFromSession(hydrated, plain), budget)
	out.TensionCount = len(tensions)

	out.HighConfidence = renderHighSection(high)
	out.MediumConfidence = renderMediumSection(medium, now)
	out.Session = renderSessionSection(sessionFields, userQuery)
	out.ObservedPatterns = renderObservedSection(patterns)
	out.Tensions = renderTensionsSection(tensions)
	out.Guidance = renderGuidanceSection(out)
	return out
}

// BuildLayeredContextString renders the assembled context as one prompt
// block, non-empty sections in fixed order separated by blank lines.
func BuildLayeredContextString(hydrated *model.HydratedFoundationalContext, plain *model.FoundationalContext, profile *model.AccountProfile, budget *model.UnifiedBudgetModel, userQuery string, now time.Time) string {
	return RenderSections(BuildLayeredContextSection(hydrated, plain, profile, budget, userQuery, now))
}

// RenderSections joins an already assembled context into the prompt form.
func RenderSections(out model.LayeredContextOutput) string {
	sections := []string{
		out.HighConfidence,
		out.MediumConfidence,
		out.Session,
		out.ObservedPatterns,
		out.Tensions,
		out.Guidance,
	}
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

// dropShadowed removes account fields whose name also appears among the
// session fields. What the user establishes in a session beats any stored
// value for the rest of that session.
func dropShadowed(account, session []model.ContextField) []model.ContextField {
	if len(account) == 0 || len(session) == 0 {
		return account
	}
	shadowed := make(map[string]bool, len(session))
	for _, f := range session {
		shadowed[f.Name] = true
	}
	var kept []model.ContextField
	for _, f := range account {
		if !shadowed[f.Name] {
			kept = append(kept, f)
		}
	}
	return kept
}

func fieldLine(f model.ContextField) string {
	line := "- " + f.Name + ": " + f.Value
	if f.Annotation != "" {
		line += " (" + f.Annotation + ")"
	}
	return line
}

func renderHighSection(fields []model.ContextField) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<user_profile confidence=\"high\">\n")
	b.WriteString("These preferences are well established for this user:\n")
	for _, f := range fields {
		b.WriteString(fieldLine(f))
		b.WriteString("\n")
	}
	b.WriteString("Act on them unless the current question suggests otherwise.\n")
	b.WriteString("</user_profile>")
	return b.String()
}

func renderMediumSection(fields []model.ContextField, now time.Time) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<user_profile confidence=\"medium\">\n")
	b.WriteString("These preferences are on record but stale or unconfirmed:\n")
	for _, f := range fields {
		line := fieldLine(f)
		if phrase := LastConfirmedPhrase(f.LastConfirmed, now); phrase != "" {
			line += " (confirmed " + phrase + ")"
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("Treat them as likely but stay open to correction.\n")
	b.WriteString("</user_profile>")
	return b.String()
}

func renderSessionSection(fields []model.ContextField, userQuery string) string {
	if len(fields) == 0 && userQuery == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("<session_context>\n")
	if len(fields) > 0 {
		b.WriteString("Established in this conversation:\n")
		for _, f := range fields {
			b.WriteString(fieldLine(f))
			b.WriteString("\n")
		}
	}
	if userQuery != "" {
		b.WriteString("The user's current question: \"" + userQuery + "\"\n")
	}
	b.WriteString("</session_context>")
	return b.String()
}

func renderObservedSection(p model.ObservedPatterns) string {
	if p.SavingsRate <= 0 && !p.HasHighInterestDebt && p.DebtToIncomeRatio <= 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<observed_patterns>\n")
	b.WriteString("Signals computed from the current budget. These reflect behavior, not stated preferences:\n")
	if p.SavingsRate > 0 {
		fmt.Fprintf(&b, "- Savings rate: %.1f%% of income\n", p.SavingsRate*100)
	}
	if p.HasHighInterestDebt {
		fmt.Fprintf(&b, "- Carrying debt above %.0f%% interest\n", highInterestRate)
	}
	if p.DebtToIncomeRatio > 0 {
		fmt.Fprintf(&b, "- Debt-to-income ratio: %.2f\n", p.DebtToIncomeRatio)
	}
	if p.EmergencyFundMonths > 0 {
		fmt.Fprintf(&b, "- Monthly surplus adds %.1f months of expense coverage\n", p.EmergencyFundMonths)
	}
	if len(p.PrimaryExpenseCategories) > 0 {
		fmt.Fprintf(&b, "- Largest expense categories: %s\n", strings.Join(p.PrimaryExpenseCategories, ", "))
	}
	b.WriteString("</observed_patterns>")
	return b.String()
}

func renderTensionsSection(tensions []model.TensionSignal) string {
	if len(tensions) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<tensions>\n")
	b.WriteString("Stated preferences and observed behavior disagree in these places:\n")
	for _, t := range tensions {
		fmt.Fprintf(&b, "- [%s] %s\n", t.Severity, t.Description)
	}
	b.WriteString("Surface these constructively; do not ignore them.\n")
	b.WriteString("</tensions>")
	return b.String()
}

// renderGuidanceSection derives usage bullets from which sections rendered.
// It never comes back empty: with no context at all it tells the model to
// ask foundational questions first.
func renderGuidanceSection(out model.LayeredContextOutput) string {
	var bullets []string
	if out.HighConfidence != "" {
		bullets = append(bullets, "- Lean on the high-confidence profile without re-asking for it.")
	}
	if out.MediumConfidence != "" {
		bullets = append(bullets, "- Verify stale preferences conversationally before relying on them.")
	}
	if out.Session != "" {
		bullets = append(bullets, "- Prioritize what the user stated this session over stored defaults.")
	}
	if out.ObservedPatterns != "" {
		bullets = append(bullets, "- Ground recommendations in the observed budget numbers.")
	}
	if out.Tensions != "" {
		bullets = append(bullets, "- Address the noted tensions with curiosity, not judgment.")
	}
	if len(bullets) == 0 {
		bullets = append(bullets, "- No profile context is available. Ask foundational questions before advising.")
	}

	var b strings.Builder
	b.WriteString("<guidance>\n")
	b.WriteString("How to use this context:\n")
	for _, line := range bullets {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("</guidance>")
	return b.String()
}
