package model

import "time"

// FoundationalContext is the per-session snapshot of the six foundational
// preferences. Only fields the user actually set are non-nil.
type FoundationalContext struct {
	FinancialPhilosophy *string `json:"financial_philosophy,omitempty"`
	RiskTolerance       *string `json:"risk_tolerance,omitempty"`
	PrimaryGoal         *string `json:"primary_goal,omitempty"`
	GoalTimeline        *string `json:"goal_timeline,omitempty"`
	LifeStage           *string `json:"life_stage,omitempty"`
	EmergencyFundStatus *string `json:"emergency_fund_status,omitempty"`
}

// Set assigns one foundational field by name. Returns false when field is
// not a foundational field name.
func (f *FoundationalContext) Set(field, value string) bool {
	v := value
	switch field {
	case "financial_philosophy":
		f.FinancialPhilosophy = &v
	case "risk_tolerance":
		f.RiskTolerance = &v
	case "primary_goal":
		f.PrimaryGoal = &v
	case "goal_timeline":
		f.GoalTimeline = &v
	case "life_stage":
		f.LifeStage = &v
	case "emergency_fund_status":
		f.EmergencyFundStatus = &v
	default:
		return false
	}
	return true
}

// IsEmpty reports whether no foundational field is set.
func (f *FoundationalContext) IsEmpty() bool {
	if f == nil {
		return true
	}
	return f.FinancialPhilosophy == nil && f.RiskTolerance == nil &&
		f.PrimaryGoal == nil && f.GoalTimeline == nil &&
		f.LifeStage == nil && f.EmergencyFundStatus == nil
}

// HydratedValue pairs a session value with where it came from, so consumers
// can tell an account default apart from an in-session answer.
type HydratedValue struct {
	Value  string        `json:"value"`
	Source ContextSource `json:"source"`
}

// HydratedFoundationalContext is the session context after account defaults
// and session answers have been merged. For any one field a session_explicit
// source always beats an account source.
type HydratedFoundationalContext struct {
	FinancialPhilosophy *HydratedValue `json:"financial_philosophy,omitempty"`
	RiskTolerance       *HydratedValue `json:"risk_tolerance,omitempty"`
	PrimaryGoal         *HydratedValue `json:"primary_goal,omitempty"`
	GoalTimeline        *HydratedValue `json:"goal_timeline,omitempty"`
	LifeStage           *HydratedValue `json:"life_stage,omitempty"`
	EmergencyFundStatus *HydratedValue `json:"emergency_fund_status,omitempty"`
}

// SessionContext is the durable record of one conversation's foundational
// answers.
type SessionContext struct {
	UserID       string              `json:"user_id"`
	Foundational FoundationalContext `json:"foundational"`
	UpdatedAt    time.Time           `json:"updated_at"`
}
