package advisor

import (
	"time"

	"github.com/finsight/advisor-cli/internal/model"
)

// testNow is the fixed clock shared across advisor tests.
var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func ptrString(v string) *string { return &v }

// explicitMeta returns metadata for a field the user edited a month ago.
func explicitMeta(now time.Time) *model.FieldMetadata {
	return &model.FieldMetadata{
		Source:        model.SourceExplicit,
		LastConfirmed: now.AddDate(0, -1, 0).Format(time.RFC3339),
		Confidence:    model.ConfidenceHigh,
	}
}

// surplusBudget has income 6000, expenses 4680 (22% savings rate), and a
// credit card at 22% interest.
func surplusBudget() *model.UnifiedBudgetModel {
	b := &model.UnifiedBudgetModel{
		Income: []model.IncomeEntry{{Name: "Salary", MonthlyAmount: 6000}},
		Expenses: []model.ExpenseEntry{
			{Name: "Rent", MonthlyAmount: 1800, Essential: true},
			{Name: "Food", MonthlyAmount: 900, Essential: true},
			{Name: "Entertainment", MonthlyAmount: 600},
			{Name: "Transport", MonthlyAmount: 480, Essential: true},
			{Name: "Insurance", MonthlyAmount: 400, Essential: true},
			{Name: "Misc", MonthlyAmount: 500},
		},
		Debts: []model.DebtEntry{
			{Name: "Credit card", Balance: 4800, InterestRate: 22.0, MinimumPayment: 150},
		},
	}
	b.Summary = b.ComputeSummary()
	return b
}

// deficitBudget runs a $600 monthly deficit and carries no debt.
func deficitBudget() *model.UnifiedBudgetModel {
	b := &model.UnifiedBudgetModel{
		Income: []model.IncomeEntry{{Name: "Salary", MonthlyAmount: 5000}},
		Expenses: []model.ExpenseEntry{
			{Name: "Rent", MonthlyAmount: 2400, Essential: true},
			{Name: "Food", MonthlyAmount: 1100, Essential: true},
			{Name: "Car", MonthlyAmount: 1300, Essential: true},
			{Name: "Subscriptions", MonthlyAmount: 800},
		},
	}
	b.Summary = b.ComputeSummary()
	return b
}

// budgetWithRate builds a one-line budget tuned to an exact surplus.
func budgetWithRate(income, surplus float64) *model.UnifiedBudgetModel {
	b := &model.UnifiedBudgetModel{
		Income: []model.IncomeEntry{{Name: "Salary", MonthlyAmount: income}},
		Expenses: []model.ExpenseEntry{
			{Name: "Living", MonthlyAmount: income - surplus, Essential: true},
		},
	}
	b.Summary = b.ComputeSummary()
	return b
}
