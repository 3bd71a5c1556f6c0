package advisor

import (
	"fmt"

	"github.com/finsight/advisor-cli/internal/model"
)

// Savings-rate thresholds used by the tension rules.
const (
	lowSavingsRate      = 0.10 // aggressive risk below this is a tension
	criticalSavingsRate = 0.05
	fireSavingsRate     = 0.25 // FIRE below this is a tension
	fireLaggingRate     = 0.15
)

// tensionInput is the resolved view of profile, session, and budget that the
// rules match against. Preferences are normalized tokens; the profile wins
// over the session snapshot when both set a field.
type tensionInput struct {
	philosophy        string
	risk              string
	efStatus          string
	optimizationFocus string
	savingsRate       float64 // sign preserved; deficits are negative
	hasSavingsRate    bool    // false when the budget has no income
	highInterestDebt  bool
	maxDebtRate       float64
	surplus           float64
	hasBudget         bool
}

// tensionRules is the fixed rule list. Rules are independent, evaluated in
// order, and the output is never reordered by severity.
var tensionRules = []func(in tensionInput) (model.TensionSignal, bool){
	detectSavingsRateTension,
	detectPhilosophyMismatch,
	detectDebtPriorityTension,
	detectEmergencyFundTension,
	detectRiskBehaviorTension,
}

// DetectTensions evaluates every rule against the resolved inputs. Any of
// the three inputs may be nil; rules that need missing data simply do not
// match.
func DetectTensions(profile *model.AccountProfile, foundational *model.FoundationalContext, budget *model.UnifiedBudgetModel) []model.TensionSignal {
	in := buildTensionInput(profile, foundational, budget)

	var signals []model.TensionSignal
	for _, rule := range tensionRules {
		if sig, ok := rule(in); ok {
			signals = append(signals, sig)
		}
	}
	return signals
}

func buildTensionInput(profile *model.AccountProfile, foundational *model.FoundationalContext, budget *model.UnifiedBudgetModel) tensionInput {
	var in tensionInput

	var pPhil, pRisk, pEF *string
	if profile != nil {
		pPhil = profile.DefaultFinancialPhilosophy
		pRisk = profile.DefaultRiskTolerance
		pEF = profile.EmergencyFundStatus
	}
	var fPhil, fRisk, fEF *string
	if foundational != nil {
		fPhil = foundational.FinancialPhilosophy
		fRisk = foundational.RiskTolerance
		fEF = foundational.EmergencyFundStatus
	}
	in.philosophy = resolvePreference(pPhil, fPhil)
	in.risk = resolvePreference(pRisk, fRisk)
	in.efStatus = resolvePreference(pEF, fEF)

	if budget != nil {
		in.hasBudget = true
		in.savingsRate, in.hasSavingsRate = rawSavingsRate(budget.Summary)
		in.highInterestDebt = hasHighInterestDebt(budget.Debts)
		in.maxDebtRate = maxDebtRate(budget.Debts)
		in.surplus = budget.Summary.Surplus
		in.optimizationFocus = normalizeToken(budget.Preferences.OptimizationFocus)
	}
	return in
}

// resolvePreference prefers the stored profile value over the session
// snapshot and returns the normalized token, or "" when neither is set.
func resolvePreference(profile, foundational *string) string {
	if profile != nil && *profile != "" {
		return normalizeToken(*profile)
	}
	if foundational != nil && *foundational != "" {
		return normalizeToken(*foundational)
	}
	return ""
}

// Rule 1: aggressive risk tolerance with almost nothing saved. A deficit is
// not a low savings rate; that case belongs to the emergency-fund rule.
func detectSavingsRateTension(in tensionInput) (model.TensionSignal, bool) {
	if in.risk != "aggressive" || !in.hasSavingsRate {
		return model.TensionSignal{}, false
	}
	if in.savingsRate < 0 || in.savingsRate >= lowSavingsRate {
		return model.TensionSignal{}, false
	}
	severity := model.SeverityMedium
	if in.savingsRate < criticalSavingsRate {
		severity = model.SeverityHigh
	}
	return model.TensionSignal{
		Type:          model.TensionSavingsRate,
		Description:   fmt.Sprintf("Risk tolerance is aggressive but only %.1f%% of income is being saved.", in.savingsRate*100),
		ProfileValue:  "aggressive risk tolerance",
		ObservedValue: fmt.Sprintf("%.1f%% savings rate", in.savingsRate*100),
		Severity:      severity,
	}, true
}

// Rule 2: FIRE philosophy with a savings rate far below what FIRE requires.
func detectPhilosophyMismatch(in tensionInput) (model.TensionSignal, bool) {
	if in.philosophy != "fire" || !in.hasSavingsRate {
		return model.TensionSignal{}, false
	}
	if in.savingsRate < 0 || in.savingsRate >= fireSavingsRate {
		return model.TensionSignal{}, false
	}
	severity := model.SeverityMedium
	if in.savingsRate < fireLaggingRate {
		severity = model.SeverityHigh
	}
	return model.TensionSignal{
		Type:          model.TensionPhilosophyMismatch,
		Description:   fmt.Sprintf("The FIRE movement typically targets a 25%%+ savings rate; the current rate is %.1f%%.", in.savingsRate*100),
		ProfileValue:  "FIRE philosophy",
		ObservedValue: fmt.Sprintf("%.1f%% savings rate", in.savingsRate*100),
		Severity:      severity,
	}, true
}

// Rule 3: Dave Ramsey philosophy with high-interest debt but a budget
// optimizing for something other than debt payoff.
func detectDebtPriorityTension(in tensionInput) (model.TensionSignal, bool) {
	if in.philosophy != "dave_ramsey" || !in.highInterestDebt {
		return model.TensionSignal{}, false
	}
	if in.optimizationFocus == "debt" {
		return model.TensionSignal{}, false
	}
	return model.TensionSignal{
		Type:          model.TensionDebtPriority,
		Description:   "The Dave Ramsey approach puts debt payoff first, but high-interest debt is outstanding and the budget's optimization focus is elsewhere.",
		ProfileValue:  "Dave Ramsey philosophy",
		ObservedValue: "high-interest debt without a debt payoff focus",
		Severity:      model.SeverityMedium,
	}, true
}

// Rule 4: a reportedly healthy emergency fund alongside a monthly deficit.
func detectEmergencyFundTension(in tensionInput) (model.TensionSignal, bool) {
	if in.efStatus != "adequate" && in.efStatus != "robust" {
		return model.TensionSignal{}, false
	}
	if !in.hasBudget || in.surplus >= 0 {
		return model.TensionSignal{}, false
	}
	return model.TensionSignal{
		Type:          model.TensionEmergencyFund,
		Description:   fmt.Sprintf("The emergency fund is reported as %s, but the budget runs a $%.0f monthly deficit that will erode it.", in.efStatus, -in.surplus),
		ProfileValue:  fmt.Sprintf("%s emergency fund", in.efStatus),
		ObservedValue: fmt.Sprintf("$%.0f monthly deficit", -in.surplus),
		Severity:      model.SeverityMedium,
	}, true
}

// Rule 5: conservative risk tolerance while carrying high-interest debt,
// severe when any rate tops 20%.
func detectRiskBehaviorTension(in tensionInput) (model.TensionSignal, bool) {
	if in.risk != "conservative" || !in.highInterestDebt {
		return model.TensionSignal{}, false
	}
	severity := model.SeverityLow
	if in.maxDebtRate > severeInterestRate {
		severity = model.SeverityHigh
	}
	return model.TensionSignal{
		Type:          model.TensionRiskBehavior,
		Description:   fmt.Sprintf("Risk tolerance is conservative, yet the budget carries debt at %.1f%% interest.", in.maxDebtRate),
		ProfileValue:  "conservative risk tolerance",
		ObservedValue: fmt.Sprintf("debt at %.1f%% interest", in.maxDebtRate),
		Severity:      severity,
	}, true
}
