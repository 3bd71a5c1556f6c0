package model

// ContextField is a single rendered line of account or session context.
type ContextField struct {
	Name          string          `json:"name"`
	Value         string          `json:"value"`
	Confidence    ConfidenceLevel `json:"confidence"`
	Source        ContextSource   `json:"source"`
	LastConfirmed string          `json:"last_confirmed,omitempty"`
	Annotation    string          `json:"annotation,omitempty"`
}

// ObservedPatterns are numeric signals derived from the budget alone. They
// are recomputed on every build and never persisted.
type ObservedPatterns struct {
	SavingsRate              float64  `json:"savings_rate"`
	HasHighInterestDebt      bool     `json:"has_high_interest_debt"`
	DebtToIncomeRatio        float64  `json:"debt_to_income_ratio"`
	EmergencyFundMonths      float64  `json:"emergency_fund_months"`
	PrimaryExpenseCategories []string `json:"primary_expense_categories,omitempty"`
}

// TensionSeverity ranks how strongly a detected tension should be surfaced.
type TensionSeverity string

const (
	SeverityLow    TensionSeverity = "low"
	SeverityMedium TensionSeverity = "medium"
	SeverityHigh   TensionSeverity = "high"
)

// Tension types, in rule order.
const (
	TensionSavingsRate        = "savings_rate"
	TensionPhilosophyMismatch = "philosophy_mismatch"
	TensionDebtPriority       = "debt_priority"
	TensionEmergencyFund      = "emergency_fund"
	TensionRiskBehavior       = "risk_behavior"
)

// TensionSignal is a detected conflict between a stated preference and
// observed budget behavior.
type TensionSignal struct {
	Type          string          `json:"type"`
	Description   string          `json:"description"`
	ProfileValue  string          `json:"profile_value"`
	ObservedValue string          `json:"observed_value"`
	Severity      TensionSeverity `json:"severity"`
}

// LayeredContextOutput is the assembled context, one string per section.
// An empty string means the section was elided.
type LayeredContextOutput struct {
	HighConfidence    string `json:"high_confidence,omitempty"`
	MediumConfidence  string `json:"medium_confidence,omitempty"`
	Session           string `json:"session,omitempty"`
	ObservedPatterns  string `json:"observed_patterns,omitempty"`
	Tensions          string `json:"tensions,omitempty"`
	Guidance          string `json:"guidance,omitempty"`
	HasAccountContext bool   `json:"has_account_context"`
	TensionCount      int    `json:"tension_count"`
}
