package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/advisor-cli/internal/model"
)

func TestDetectTensions_AlignedProfileHasNone(t *testing.T) {
	profile := &model.AccountProfile{
		UserID:                     "u1",
		DefaultFinancialPhilosophy: ptrString("balanced"),
		DefaultRiskTolerance:       ptrString("moderate"),
	}
	// 20% savings, no debt.
	assert.Empty(t, DetectTensions(profile, nil, budgetWithRate(6000, 1200)))
}

func TestDetectTensions_AggressiveLowSavings(t *testing.T) {
	profile := &model.AccountProfile{DefaultRiskTolerance: ptrString("aggressive")}

	got := DetectTensions(profile, nil, budgetWithRate(6000, 480)) // 8%
	require.Len(t, got, 1)
	assert.Equal(t, model.TensionSavingsRate, got[0].Type)
	assert.Equal(t, model.SeverityMedium, got[0].Severity)
}

func TestDetectTensions_AggressiveCriticalSavings(t *testing.T) {
	profile := &model.AccountProfile{DefaultRiskTolerance: ptrString("aggressive")}

	got := DetectTensions(profile, nil, budgetWithRate(6000, 180)) // 3%
	require.Len(t, got, 1)
	assert.Equal(t, model.SeverityHigh, got[0].Severity)
}

func TestDetectTensions_DeficitDoesNotMatchSavingsRules(t *testing.T) {
	// A deficit is not a low savings rate. Rules 1 and 2 must not fire; the
	// emergency-fund rule owns the deficit case.
	profile := &model.AccountProfile{
		DefaultRiskTolerance:       ptrString("aggressive"),
		DefaultFinancialPhilosophy: ptrString("fire"),
	}
	assert.Empty(t, DetectTensions(profile, nil, deficitBudget()))
}

func TestDetectTensions_FireAtFourPercent(t *testing.T) {
	profile := &model.AccountProfile{DefaultFinancialPhilosophy: ptrString("fire")}

	got := DetectTensions(profile, nil, budgetWithRate(5000, 200)) // 4%
	require.Len(t, got, 1)
	assert.Equal(t, model.TensionPhilosophyMismatch, got[0].Type)
	assert.Equal(t, model.SeverityHigh, got[0].Severity)
}

func TestDetectTensions_FireLagging(t *testing.T) {
	profile := &model.AccountProfile{DefaultFinancialPhilosophy: ptrString("fire")}

	got := DetectTensions(profile, nil, budgetWithRate(5000, 1000)) // 20%
	require.Len(t, got, 1)
	assert.Equal(t, model.SeverityMedium, got[0].Severity)
}

func TestDetectTensions_FireOnTrack(t *testing.T) {
	profile := &model.AccountProfile{DefaultFinancialPhilosophy: ptrString("fire")}
	assert.Empty(t, DetectTensions(profile, nil, budgetWithRate(5000, 1500))) // 30%
}

func TestDetectTensions_DebtPriorityMismatch(t *testing.T) {
	profile := &model.AccountProfile{DefaultFinancialPhilosophy: ptrString("dave_ramsey")}
	b := surplusBudget()
	b.Preferences.OptimizationFocus = "savings"

	got := DetectTensions(profile, nil, b)
	require.Len(t, got, 1)
	assert.Equal(t, model.TensionDebtPriority, got[0].Type)
	assert.Equal(t, model.SeverityMedium, got[0].Severity)
}

func TestDetectTensions_DebtFocusSuppressesDebtPriority(t *testing.T) {
	profile := &model.AccountProfile{DefaultFinancialPhilosophy: ptrString("dave_ramsey")}
	b := surplusBudget()
	b.Preferences.OptimizationFocus = "debt"

	assert.Empty(t, DetectTensions(profile, nil, b))
}

func TestDetectTensions_EmergencyFundDeficit(t *testing.T) {
	profile := &model.AccountProfile{EmergencyFundStatus: ptrString("adequate")}

	got := DetectTensions(profile, nil, deficitBudget())
	require.Len(t, got, 1)
	assert.Equal(t, model.TensionEmergencyFund, got[0].Type)
	assert.Equal(t, model.SeverityMedium, got[0].Severity)
	assert.Contains(t, got[0].Description, "$600")
}

func TestDetectTensions_RobustFundDeficit(t *testing.T) {
	profile := &model.AccountProfile{EmergencyFundStatus: ptrString("robust")}

	got := DetectTensions(profile, nil, deficitBudget())
	require.Len(t, got, 1)
	assert.Equal(t, model.TensionEmergencyFund, got[0].Type)
}

func TestDetectTensions_BuildingFundDeficitIsFine(t *testing.T) {
	// Someone still building a fund with a deficit is consistent, if tight.
	profile := &model.AccountProfile{EmergencyFundStatus: ptrString("building")}
	assert.Empty(t, DetectTensions(profile, nil, deficitBudget()))
}

func TestDetectTensions_ConservativeWithSevereDebt(t *testing.T) {
	profile := &model.AccountProfile{DefaultRiskTolerance: ptrString("conservative")}

	got := DetectTensions(profile, nil, surplusBudget()) // card at 22%
	require.Len(t, got, 1)
	assert.Equal(t, model.TensionRiskBehavior, got[0].Type)
	assert.Equal(t, model.SeverityHigh, got[0].Severity)
}

func TestDetectTensions_ConservativeWithMildHighInterest(t *testing.T) {
	profile := &model.AccountProfile{DefaultRiskTolerance: ptrString("conservative")}
	b := budgetWithRate(6000, 1200)
	b.Debts = []model.DebtEntry{
		{Name: "Store card", Balance: 900, InterestRate: 17, MinimumPayment: 40},
	}

	got := DetectTensions(profile, nil, b)
	require.Len(t, got, 1)
	assert.Equal(t, model.SeverityLow, got[0].Severity)
}

func TestDetectTensions_RuleOrderPreserved(t *testing.T) {
	// Two matches: debt_priority (medium) then risk_behavior (high). Output
	// stays in rule order, never sorted by severity.
	profile := &model.AccountProfile{
		DefaultFinancialPhilosophy: ptrString("dave_ramsey"),
		DefaultRiskTolerance:       ptrString("conservative"),
	}
	b := surplusBudget()
	b.Preferences.OptimizationFocus = "investing"

	got := DetectTensions(profile, nil, b)
	require.Len(t, got, 2)
	assert.Equal(t, model.TensionDebtPriority, got[0].Type)
	assert.Equal(t, model.TensionRiskBehavior, got[1].Type)
	assert.Equal(t, model.SeverityHigh, got[1].Severity)
}

func TestDetectTensions_ProfileBeatsFoundational(t *testing.T) {
	profile := &model.AccountProfile{DefaultRiskTolerance: ptrString("conservative")}
	foundational := &model.FoundationalContext{RiskTolerance: ptrString("aggressive")}

	got := DetectTensions(profile, foundational, surplusBudget())
	require.Len(t, got, 1)
	assert.Equal(t, model.TensionRiskBehavior, got[0].Type)
}

func TestDetectTensions_FoundationalFallback(t *testing.T) {
	foundational := &model.FoundationalContext{FinancialPhilosophy: ptrString("fire")}

	got := DetectTensions(nil, foundational, budgetWithRate(5000, 200))
	require.Len(t, got, 1)
	assert.Equal(t, model.TensionPhilosophyMismatch, got[0].Type)
}

func TestDetectTensions_TokenNormalization(t *testing.T) {
	profile := &model.AccountProfile{DefaultFinancialPhilosophy: ptrString("FIRE")}

	got := DetectTensions(profile, nil, budgetWithRate(5000, 200))
	require.Len(t, got, 1)
}

func TestDetectTensions_NilInputs(t *testing.T) {
	assert.Empty(t, DetectTensions(nil, nil, nil))
}

func TestDetectTensions_NoBudgetNoSignals(t *testing.T) {
	profile := &model.AccountProfile{
		DefaultRiskTolerance: ptrString("aggressive"),
		EmergencyFundStatus:  ptrString("robust"),
	}
	assert.Empty(t, DetectTensions(profile, nil, nil))
}
