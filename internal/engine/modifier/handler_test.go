package modifier_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strideworks/physioengine/internal/engine/crosstrain"
	"github.com/strideworks/physioengine/internal/engine/modifier"
	"github.com/strideworks/physioengine/internal/engine/readiness"
)

func TestHandler_HandleModify(t *testing.T) {
	h := modifier.NewHandler()

	reqJson, err := json.Marshal(modifier.ModifyRequest{
		AthleteID: "athlete-1",
		Session: modifier.Session{
			Modality: crosstrain.ModalityRunning,
			Duration: 60 * time.Minute,
			Zone:     2,
		},
		Decision: readiness.Decision{Score: 62, Category: readiness.CategoryMinorMod},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("POST", "", bytes.NewReader(reqJson))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	h.HandleModify(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var outcome modifier.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, modifier.ActionReduce, outcome.Action)
	require.NotNil(t, outcome.Session)
	assert.Equal(t, 48*time.Minute, outcome.Session.Duration)
}

func TestHandler_HandleModify_InjuryConversion(t *testing.T) {
	h := modifier.NewHandler()

	reqJson, err := json.Marshal(modifier.ModifyRequest{
		AthleteID: "athlete-1",
		Session: modifier.Session{
			Modality: crosstrain.ModalityRunning,
			Duration: 60 * time.Minute,
			Zone:     2,
		},
		Decision: readiness.Decision{Score: 88, Category: readiness.CategoryProceed},
		Injuries: []modifier.Injury{{Region: "knee", AffectsGait: true, LowerLimb: true}},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("POST", "", bytes.NewReader(reqJson))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	h.HandleModify(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var outcome modifier.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, modifier.ActionCrossTrain, outcome.Action)
	require.NotNil(t, outcome.Session)
	assert.NotEqual(t, crosstrain.ModalityRunning, outcome.Session.Modality)
}

func TestHandler_HandleModify_InvalidRequests(t *testing.T) {
	h := modifier.NewHandler()

	t.Run("missing content type", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req, err := http.NewRequest("POST", "", bytes.NewReader([]byte("{}")))
		require.NoError(t, err)
		h.HandleModify(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("zero duration session", func(t *testing.T) {
		reqJson, err := json.Marshal(modifier.ModifyRequest{
			Session:  modifier.Session{Modality: crosstrain.ModalityRunning},
			Decision: readiness.Decision{Category: readiness.CategoryProceed},
		})
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		req, err := http.NewRequest("POST", "", bytes.NewReader(reqJson))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		h.HandleModify(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
