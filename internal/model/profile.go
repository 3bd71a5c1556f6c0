package model

import "time"

// ConfidenceLevel grades how much trust the advisor should place in a
// context field when reasoning about the user.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// ContextSource records where a context value came from.
type ContextSource string

const (
	// Account-side sources, persisted in profile metadata.
	SourceExplicit        ContextSource = "explicit"         // user edited the field directly
	SourceOnboarding      ContextSource = "onboarding"       // captured during signup flow
	SourceSessionPromoted ContextSource = "session_promoted" // promoted from a past session answer
	SourceInferred        ContextSource = "inferred"         // derived from behavior

	// Session-side sources, produced during hydration.
	SourceAccount         ContextSource = "account"
	SourceSessionExplicit ContextSource = "session_explicit"
)

// FieldMetadata is the provenance record attached to a single profile field.
type FieldMetadata struct {
	Source        ContextSource   `json:"source"`
	LastConfirmed string          `json:"last_confirmed,omitempty"`
	Confidence    ConfidenceLevel `json:"confidence"`
}

// ProfileMetadata maps profile field names to their provenance. A nil map or
// a missing entry means the field has no provenance and is treated as low
// confidence.
type ProfileMetadata map[string]*FieldMetadata

// Profile field names, used as metadata keys and edit targets.
const (
	FieldFinancialPhilosophy = "default_financial_philosophy"
	FieldRiskTolerance       = "default_risk_tolerance"
	FieldPrimaryGoal         = "primary_goal"
	FieldGoalTimeline        = "goal_timeline"
	FieldLifeStage           = "life_stage"
	FieldEmergencyFund       = "emergency_fund_status"
	FieldOptimizationFocus   = "optimization_focus"
)

// AccountProfile is the durable per-user preference record. Every preference
// field is nullable: an empty profile is valid and renders no context.
type AccountProfile struct {
	UserID                     string          `json:"user_id"`
	DefaultFinancialPhilosophy *string         `json:"default_financial_philosophy,omitempty"`
	DefaultRiskTolerance       *string         `json:"default_risk_tolerance,omitempty"`
	PrimaryGoal                *string         `json:"primary_goal,omitempty"`
	GoalTimeline               *string         `json:"goal_timeline,omitempty"`
	LifeStage                  *string         `json:"life_stage,omitempty"`
	EmergencyFundStatus        *string         `json:"emergency_fund_status,omitempty"`
	OptimizationFocus          *string         `json:"optimization_focus,omitempty"`
	Metadata                   ProfileMetadata `json:"metadata,omitempty"`
	CreatedAt                  time.Time       `json:"created_at"`
	UpdatedAt                  time.Time       `json:"updated_at"`
}

// ApplyExplicitEdit sets a preference field to value and refreshes its
// metadata to an explicit, high-confidence entry confirmed at now. Returns
// false when field is not a tracked profile field.
func ApplyExplicitEdit(p *AccountProfile, field, value string, now time.Time) bool {
	target := p.fieldPtr(field)
	if target == nil {
		return false
	}
	v := value
	*target = &v
	if p.Metadata == nil {
		p.Metadata = ProfileMetadata{}
	}
	p.Metadata[field] = &FieldMetadata{
		Source:        SourceExplicit,
		LastConfirmed: now.UTC().Format(time.RFC3339),
		Confidence:    ConfidenceHigh,
	}
	return true
}

// IsProfileField reports whether field names a tracked profile field.
func IsProfileField(field string) bool {
	var p AccountProfile
	return p.fieldPtr(field) != nil
}

func (p *AccountProfile) fieldPtr(field string) **string {
	switch field {
	case FieldFinancialPhilosophy:
		return &p.DefaultFinancialPhilosophy
	case FieldRiskTolerance:
		return &p.DefaultRiskTolerance
	case FieldPrimaryGoal:
		return &p.PrimaryGoal
	case FieldGoalTimeline:
		return &p.GoalTimeline
	case FieldLifeStage:
		return &p.LifeStage
	case FieldEmergencyFund:
		return &p.EmergencyFundStatus
	case FieldOptimizationFocus:
		return &p.OptimizationFocus
	}
	return nil
}
