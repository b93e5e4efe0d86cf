package modifier_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strideworks/physioengine/internal/engine/crosstrain"
	"github.com/strideworks/physioengine/internal/engine/modifier"
	"github.com/strideworks/physioengine/internal/engine/readiness"
)

func plannedRun() modifier.Session {
	return modifier.Session{
		Modality: crosstrain.ModalityRunning,
		Duration: 60 * time.Minute,
		Zone:     2,
	}
}

func decision(c readiness.Category) readiness.Decision {
	return readiness.Decision{Score: 75, Category: c, Reasons: []string{"subjective composite 75/100"}}
}

func TestModify_ProceedKeepsSession(t *testing.T) {
	out, err := modifier.Modify(plannedRun(), decision(readiness.CategoryProceed), nil)
	require.NoError(t, err)
	assert.Equal(t, modifier.ActionKeep, out.Action)
	require.NotNil(t, out.Session)
	assert.Equal(t, 60*time.Minute, out.Session.Duration)
	assert.Equal(t, crosstrain.ModalityRunning, out.Session.Modality)
}

func TestModify_MinorModReducesDuration(t *testing.T) {
	out, err := modifier.Modify(plannedRun(), decision(readiness.CategoryMinorMod), nil)
	require.NoError(t, err)
	assert.Equal(t, modifier.ActionReduce, out.Action)
	require.NotNil(t, out.Session)
	assert.Equal(t, 48*time.Minute, out.Session.Duration)
	assert.Equal(t, 2, out.Session.Zone)
}

func TestModify_MajorModBecomesActiveRecovery(t *testing.T) {
	out, err := modifier.Modify(plannedRun(), decision(readiness.CategoryMajorMod), nil)
	require.NoError(t, err)
	assert.Equal(t, modifier.ActionRecovery, out.Action)
	require.NotNil(t, out.Session)
	assert.Equal(t, 30*time.Minute, out.Session.Duration)
	assert.Equal(t, 1, out.Session.Zone)
	assert.NotEqual(t, crosstrain.ModalityRunning, out.Session.Modality)
}

func TestModify_RestCancelsSession(t *testing.T) {
	out, err := modifier.Modify(plannedRun(), decision(readiness.CategoryRest), nil)
	require.NoError(t, err)
	assert.Equal(t, modifier.ActionCancel, out.Action)
	assert.Nil(t, out.Session)
	assert.Contains(t, out.Reasons, "rest day")
}

func TestModify_GaitInjuryDominatesAllReadiness(t *testing.T) {
	// a gait-affecting injury removes running from the plan no matter how
	// good the readiness signal is
	injuries := []modifier.Injury{{Region: "knee", AffectsGait: true, LowerLimb: true}}

	for _, cat := range []readiness.Category{
		readiness.CategoryProceed,
		readiness.CategoryMinorMod,
		readiness.CategoryMajorMod,
		readiness.CategoryRest,
	} {
		out, err := modifier.Modify(plannedRun(), decision(cat), injuries)
		require.NoError(t, err)
		assert.Equal(t, modifier.ActionCrossTrain, out.Action, "category %s", cat)
		require.NotNil(t, out.Session)
		assert.NotEqual(t, crosstrain.ModalityRunning, out.Session.Modality)
	}
}

func TestModify_LowerLimbInjuryNeverProducesRunning(t *testing.T) {
	injuries := []modifier.Injury{{Region: "achilles", LowerLimb: true}}
	out, err := modifier.Modify(plannedRun(), decision(readiness.CategoryProceed), injuries)
	require.NoError(t, err)
	require.NotNil(t, out.Session)
	assert.NotEqual(t, crosstrain.ModalityRunning, out.Session.Modality)
	assert.Equal(t, modifier.ActionCrossTrain, out.Action)
	// equivalent volume is longer than the planned run
	assert.Greater(t, out.Session.Duration, 60*time.Minute)
}

func TestModify_InjuryIgnoredForNonRunningSession(t *testing.T) {
	swim := modifier.Session{Modality: crosstrain.ModalitySwimming, Duration: 45 * time.Minute, Zone: 2}
	injuries := []modifier.Injury{{Region: "knee", AffectsGait: true, LowerLimb: true}}

	out, err := modifier.Modify(swim, decision(readiness.CategoryProceed), injuries)
	require.NoError(t, err)
	assert.Equal(t, modifier.ActionKeep, out.Action)
	assert.Equal(t, crosstrain.ModalitySwimming, out.Session.Modality)
}

func TestModify_NonLimitingInjuryFallsThroughToReadiness(t *testing.T) {
	injuries := []modifier.Injury{{Region: "shoulder"}}
	out, err := modifier.Modify(plannedRun(), decision(readiness.CategoryMinorMod), injuries)
	require.NoError(t, err)
	assert.Equal(t, modifier.ActionReduce, out.Action)
	assert.Equal(t, crosstrain.ModalityRunning, out.Session.Modality)
}

func TestModify_Idempotent(t *testing.T) {
	injuries := []modifier.Injury{{Region: "knee", AffectsGait: true, LowerLimb: true}}
	first, err := modifier.Modify(plannedRun(), decision(readiness.CategoryMinorMod), injuries)
	require.NoError(t, err)
	second, err := modifier.Modify(plannedRun(), decision(readiness.CategoryMinorMod), injuries)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestModify_InvalidDuration(t *testing.T) {
	_, err := modifier.Modify(modifier.Session{Modality: crosstrain.ModalityRunning}, decision(readiness.CategoryProceed), nil)
	assert.Error(t, err)
}
