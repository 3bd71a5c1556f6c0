package advisor

import (
	"sort"

	"github.com/finsight/advisor-cli/internal/model"
)

// Interest-rate thresholds in annual percent units.
const (
	highInterestRate   = 15.0 // above this a debt counts as high-interest
	severeInterestRate = 20.0 // above this a high-interest debt is severe
)

// topExpenseCount caps how many expense categories are surfaced.
const topExpenseCount = 3

// ExtractObservedPatterns derives behavioral signals from a normalized
// budget. The budget is the only input: nothing here reads stated
// preferences, and a nil or empty budget yields zero-valued patterns.
func ExtractObservedPatterns(budget *model.UnifiedBudgetModel) model.ObservedPatterns {
	var p model.ObservedPatterns
	if budget == nil {
		return p
	}

	s := budget.Summary
	if rate, ok := rawSavingsRate(s); ok && rate > 0 {
		p.SavingsRate = rate
	}

	var totalDebt float64
	for _, d := range budget.Debts {
		totalDebt += d.Balance
	}
	p.HasHighInterestDebt = hasHighInterestDebt(budget.Debts)
	if s.TotalIncome > 0 {
		p.DebtToIncomeRatio = totalDebt / (s.TotalIncome * 12)
	}

	if s.TotalExpenses > 0 && s.Surplus > 0 {
		p.EmergencyFundMonths = s.Surplus / s.TotalExpenses
	}

	p.PrimaryExpenseCategories = topExpenseCategories(budget.Expenses, topExpenseCount)
	return p
}

// rawSavingsRate is the canonical surplus-to-income ratio, sign preserved.
// ok is false when the budget has no income. The extractor clamps negatives
// to zero for display; the tension rules need the sign.
func rawSavingsRate(s model.BudgetSummary) (rate float64, ok bool) {
	if s.TotalIncome <= 0 {
		return 0, false
	}
	return s.Surplus / s.TotalIncome, true
}

func hasHighInterestDebt(debts []model.DebtEntry) bool {
	for _, d := range debts {
		if d.InterestRate > highInterestRate {
			return true
		}
	}
	return false
}

func maxDebtRate(debts []model.DebtEntry) float64 {
	max := 0.0
	for _, d := range debts {
		if d.InterestRate > max {
			max = d.InterestRate
		}
	}
	return max
}

// topExpenseCategories returns the names of the n largest expense lines by
// monthly amount. Ties keep input order.
func topExpenseCategories(expenses []model.ExpenseEntry, n int) []string {
	if len(expenses) == 0 || n <= 0 {
		return nil
	}
	sorted := make([]model.ExpenseEntry, len(expenses))
	copy(sorted, expenses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MonthlyAmount > sorted[j].MonthlyAmount
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	names := make([]string, 0, n)
	for _, e := range sorted[:n] {
		names = append(names, e.Name)
	}
	return names
}
