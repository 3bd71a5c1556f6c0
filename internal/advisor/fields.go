package advisor

import (
	"time"

	"github.com/finsight/advisor-cli/internal/model"
)

// Annotations attached to rendered context fields.
const (
	annotationExplicit = "explicitly set in profile"
	annotationSession  = "set this session"
)

// fieldSpec wires one foundational field through the builders: its metadata
// key, display name, label resolver, and accessors on each model.
type fieldSpec struct {
	key          string
	display      string
	label        func(string) string
	fromProfile  func(*model.AccountProfile) *string
	fromSession  func(*model.FoundationalContext) *string
	fromHydrated func(*model.HydratedFoundationalContext) *model.HydratedValue
	setHydrated  func(*model.HydratedFoundationalContext, *model.HydratedValue)
	setSession   func(*model.FoundationalContext, *string)
}

// fieldSpecs lists the six foundational fields in render order.
var fieldSpecs = []fieldSpec{
	{
		key:     model.FieldFinancialPhilosophy,
		display: "Financial philosophy",
		label:   philosophyLabel,
		fromProfile: func(p *model.AccountProfile) *string { return p.DefaultFinancialPhilosophy },
		fromSession: func(f *model.FoundationalContext) *string { return f.FinancialPhilosophy },
		fromHydrated: func(h *model.HydratedFoundationalContext) *model.HydratedValue {
			return h.FinancialPhilosophy
		},
		setHydrated: func(h *model.HydratedFoundationalContext, v *model.HydratedValue) {
			h.FinancialPhilosophy = v
		},
		setSession: func(f *model.FoundationalContext, v *string) { f.FinancialPhilosophy = v },
	},
	{
		key:     model.FieldRiskTolerance,
		display: "Risk tolerance",
		label:   riskToleranceLabel,
		fromProfile: func(p *model.AccountProfile) *string { return p.DefaultRiskTolerance },
		fromSession: func(f *model.FoundationalContext) *string { return f.RiskTolerance },
		fromHydrated: func(h *model.HydratedFoundationalContext) *model.HydratedValue {
			return h.RiskTolerance
		},
		setHydrated: func(h *model.HydratedFoundationalContext, v *model.HydratedValue) {
			h.RiskTolerance = v
		},
		setSession: func(f *model.FoundationalContext, v *string) { f.RiskTolerance = v },
	},
	{
		key:     model.FieldPrimaryGoal,
		display: "Primary goal",
		label:   goalLabel,
		fromProfile: func(p *model.AccountProfile) *string { return p.PrimaryGoal },
		fromSession: func(f *model.FoundationalContext) *string { return f.PrimaryGoal },
		fromHydrated: func(h *model.HydratedFoundationalContext) *model.HydratedValue {
			return h.PrimaryGoal
		},
		setHydrated: func(h *model.HydratedFoundationalContext, v *model.HydratedValue) {
			h.PrimaryGoal = v
		},
		setSession: func(f *model.FoundationalContext, v *string) { f.PrimaryGoal = v },
	},
	{
		key:     model.FieldGoalTimeline,
		display: "Goal timeline",
		label:   timelineLabel,
		fromProfile: func(p *model.AccountProfile) *string { return p.GoalTimeline },
		fromSession: func(f *model.FoundationalContext) *string { return f.GoalTimeline },
		fromHydrated: func(h *model.HydratedFoundationalContext) *model.HydratedValue {
			return h.GoalTimeline
		},
		setHydrated: func(h *model.HydratedFoundationalContext, v *model.HydratedValue) {
			h.GoalTimeline = v
		},
		setSession: func(f *model.FoundationalContext, v *string) { f.GoalTimeline = v },
	},
	{
		key:     model.FieldLifeStage,
		display: "Life stage",
		label:   lifeStageLabel,
		fromProfile: func(p *model.AccountProfile) *string { return p.LifeStage },
		fromSession: func(f *model.FoundationalContext) *string { return f.LifeStage },
		fromHydrated: func(h *model.HydratedFoundationalContext) *model.HydratedValue {
			return h.LifeStage
		},
		setHydrated: func(h *model.HydratedFoundationalContext, v *model.HydratedValue) {
			h.LifeStage = v
		},
		setSession: func(f *model.FoundationalContext, v *string) { f.LifeStage = v },
	},
	{
		key:     model.FieldEmergencyFund,
		display: "Emergency fund",
		label:   emergencyFundLabel,
		fromProfile: func(p *model.AccountProfile) *string { return p.EmergencyFundStatus },
		fromSession: func(f *model.FoundationalContext) *string { return f.EmergencyFundStatus },
		fromHydrated: func(h *model.HydratedFoundationalContext) *model.HydratedValue {
			return h.EmergencyFundStatus
		},
		setHydrated: func(h *model.HydratedFoundationalContext, v *model.HydratedValue) {
			h.EmergencyFundStatus = v
		},
		setSession: func(f *model.FoundationalContext, v *string) { f.EmergencyFundStatus = v },
	},
}

// BuildAccountContextFields renders the profile's set fields with their
// effective confidence at now. Unset fields are omitted. High-confidence
// fields carry the explicit annotation; confidence filtering is left to the
// assembler.
func BuildAccountContextFields(profile *model.AccountProfile, meta model.ProfileMetadata, now time.Time) []model.ContextField {
	if profile == nil {
		return nil
	}

	var fields []model.ContextField
	for _, spec := range fieldSpecs {
		raw := spec.fromProfile(profile)
		if raw == nil || *raw == "" {
			continue
		}

		fm := meta[spec.key]
		conf := EffectiveConfidence(fm, now)
		f := model.ContextField{
			Name:       spec.display,
			Value:      spec.label(*raw),
			Confidence: conf,
		}
		if fm != nil {
			f.Source = fm.Source
			f.LastConfirmed = fm.LastConfirmed
		}
		if conf == model.ConfidenceHigh {
			f.Annotation = annotationExplicit
		}
		fields = append(fields, f)
	}
	return fields
}

// BuildSessionContextFields renders what the user established this session.
// From a hydrated context only session_explicit entries count; account
// entries already render through the account builder. The plain snapshot is
// the fresh-form fallback and fills fields hydration did not cover; either
// path yields the same high-confidence, session-annotated field.
func BuildSessionContextFields(hydrated *model.HydratedFoundationalContext, plain *model.FoundationalContext) []model.ContextField {
	var fields []model.ContextField
	for _, spec := range fieldSpecs {
		var value string

		if hydrated != nil {
			if hv := spec.fromHydrated(hydrated); hv != nil && hv.Source == model.SourceSessionExplicit && hv.Value != "" {
				value = hv.Value
			}
		}
		if value == "" && plain != nil {
			if v := spec.fromSession(plain); v != nil && *v != "" {
				value = *v
			}
		}
		if value == "" {
			continue
		}

		fields = append(fields, model.ContextField{
			Name:       spec.display,
			Value:      spec.label(value),
			Confidence: model.ConfidenceHigh,
			Source:     model.SourceSessionExplicit,
			Annotation: annotationSession,
		})
	}
	return fields
}
