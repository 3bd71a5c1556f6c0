package advisor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/advisor-cli/internal/model"
)

func TestBuildAccountContextFields_ExplicitAnnotation(t *testing.T) {
	profile := &model.AccountProfile{
		DefaultFinancialPhilosophy: ptrString("fire"),
		Metadata: model.ProfileMetadata{
			model.FieldFinancialPhilosophy: explicitMeta(testNow),
		},
	}

	fields := BuildAccountContextFields(profile, profile.Metadata, testNow)
	require.Len(t, fields, 1)
	assert.Equal(t, "Financial philosophy", fields[0].Name)
	assert.Contains(t, fields[0].Value, "FIRE movement")
	assert.Equal(t, model.ConfidenceHigh, fields[0].Confidence)
	assert.Equal(t, "explicitly set in profile", fields[0].Annotation)
	assert.Equal(t, model.SourceExplicit, fields[0].Source)
}

func TestBuildAccountContextFields_NoMetadataIsLow(t *testing.T) {
	profile := &model.AccountProfile{DefaultRiskTolerance: ptrString("moderate")}

	fields := BuildAccountContextFields(profile, nil, testNow)
	require.Len(t, fields, 1)
	assert.Equal(t, model.ConfidenceLow, fields[0].Confidence)
	assert.Empty(t, fields[0].Annotation)
}

func TestBuildAccountContextFields_UnsetFieldsOmitted(t *testing.T) {
	profile := &model.AccountProfile{
		PrimaryGoal: ptrString("debt_free"),
		LifeStage:   ptrString("early_career"),
	}

	fields := BuildAccountContextFields(profile, nil, testNow)
	require.Len(t, fields, 2)
	assert.Equal(t, "Primary goal", fields[0].Name)
	assert.Equal(t, "Life stage", fields[1].Name)
}

func TestBuildAccountContextFields_StaleDowngrade(t *testing.T) {
	stale := testNow.AddDate(0, -8, 0).Format(time.RFC3339)
	profile := &model.AccountProfile{
		GoalTimeline: ptrString("long_term"),
		Metadata: model.ProfileMetadata{
			model.FieldGoalTimeline: {
				Source:        model.SourceOnboarding,
				LastConfirmed: stale,
				Confidence:    model.ConfidenceHigh,
			},
		},
	}

	fields := BuildAccountContextFields(profile, profile.Metadata, testNow)
	require.Len(t, fields, 1)
	assert.Equal(t, model.ConfidenceMedium, fields[0].Confidence)
	assert.Empty(t, fields[0].Annotation)
	assert.Equal(t, stale, fields[0].LastConfirmed)
}

func TestBuildAccountContextFields_NilProfile(t *testing.T) {
	assert.Nil(t, BuildAccountContextFields(nil, nil, testNow))
}

func TestBuildSessionContextFields_HydratedExplicit(t *testing.T) {
	// Only the session answer renders; the account-sourced value already
	// shows up through the account builder.
	h := &model.HydratedFoundationalContext{
		RiskTolerance: &model.HydratedValue{Value: "conservative", Source: model.SourceSessionExplicit},
		LifeStage:     &model.HydratedValue{Value: "mid_career", Source: model.SourceAccount},
	}

	fields := BuildSessionContextFields(h, nil)
	require.Len(t, fields, 1)
	assert.Equal(t, "Risk tolerance", fields[0].Name)
	assert.Equal(t, "set this session", fields[0].Annotation)
	assert.Equal(t, model.ConfidenceHigh, fields[0].Confidence)
	assert.Equal(t, model.SourceSessionExplicit, fields[0].Source)
}

func TestBuildSessionContextFields_PlainFallback(t *testing.T) {
	// A flat snapshot that never went through hydration still renders as a
	// session statement.
	plain := &model.FoundationalContext{PrimaryGoal: ptrString("buy_home")}

	fields := BuildSessionContextFields(nil, plain)
	require.Len(t, fields, 1)
	assert.Equal(t, "Primary goal", fields[0].Name)
	assert.Contains(t, fields[0].Value, "home")
	assert.Equal(t, "set this session", fields[0].Annotation)
	assert.Equal(t, model.SourceSessionExplicit, fields[0].Source)
}

func TestBuildSessionContextFields_HydratedWinsConflict(t *testing.T) {
	h := &model.HydratedFoundationalContext{
		RiskTolerance: &model.HydratedValue{Value: "conservative", Source: model.SourceSessionExplicit},
	}
	plain := &model.FoundationalContext{RiskTolerance: ptrString("aggressive")}

	fields := BuildSessionContextFields(h, plain)
	require.Len(t, fields, 1)
	assert.Contains(t, fields[0].Value, "conservative")
}

func TestBuildSessionContextFields_Empty(t *testing.T) {
	assert.Empty(t, BuildSessionContextFields(nil, nil))
	assert.Empty(t, BuildSessionContextFields(&model.HydratedFoundationalContext{}, &model.FoundationalContext{}))
}
