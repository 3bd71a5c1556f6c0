package model

import "time"

// IncomeEntry is a single monthly income line in a normalized budget.
type IncomeEntry struct {
	Name          string  `json:"name" yaml:"name"`
	MonthlyAmount float64 `json:"monthly_amount" yaml:"monthly_amount"`
}

// ExpenseEntry is a single monthly expense line. Essential marks
// non-discretionary spending.
type ExpenseEntry struct {
	Name          string  `json:"name" yaml:"name"`
	MonthlyAmount float64 `json:"monthly_amount" yaml:"monthly_amount"`
	Essential     bool    `json:"essential" yaml:"essential"`
}

// DebtEntry is a single outstanding debt.
type DebtEntry struct {
	Name           string  `json:"name" yaml:"name"`
	Balance        float64 `json:"balance" yaml:"balance"`
	InterestRate   float64 `json:"interest_rate" yaml:"interest_rate"` // annual rate in percent units
	MinimumPayment float64 `json:"minimum_payment" yaml:"minimum_payment"`
}

// BudgetPreferences carries user choices about how the budget should be
// worked, independent of the numbers themselves.
type BudgetPreferences struct {
	OptimizationFocus string `json:"optimization_focus,omitempty" yaml:"optimization_focus,omitempty"`
}

// BudgetSummary holds precomputed monthly totals for a budget.
type BudgetSummary struct {
	TotalIncome   float64 `json:"total_income" yaml:"total_income"`
	TotalExpenses float64 `json:"total_expenses" yaml:"total_expenses"`
	Surplus       float64 `json:"surplus" yaml:"surplus"`
}

// UnifiedBudgetModel is the normalized, read-only budget document the
// context builder consumes. Construction from raw statements happens
// upstream and is out of scope here.
type UnifiedBudgetModel struct {
	Income      []IncomeEntry     `json:"income" yaml:"income"`
	Expenses    []ExpenseEntry    `json:"expenses" yaml:"expenses"`
	Debts       []DebtEntry       `json:"debts" yaml:"debts"`
	Preferences BudgetPreferences `json:"preferences" yaml:"preferences"`
	Summary     BudgetSummary     `json:"summary" yaml:"summary"`
}

// ComputeSummary derives monthly totals from the entry lists. Loaders use it
// to fill in a missing summary block; an explicit summary is left alone.
func (b *UnifiedBudgetModel) ComputeSummary() BudgetSummary {
	var s BudgetSummary
	for _, in := range b.Income {
		s.TotalIncome += in.MonthlyAmount
	}
	for _, ex := range b.Expenses {
		s.TotalExpenses += ex.MonthlyAmount
	}
	s.Surplus = s.TotalIncome - s.TotalExpenses
	return s
}

// BudgetRecord wraps a budget document for persistence.
type BudgetRecord struct {
	UserID    string             `json:"user_id"`
	Budget    UnifiedBudgetModel `json:"budget"`
	UpdatedAt time.Time          `json:"updated_at"`
}
