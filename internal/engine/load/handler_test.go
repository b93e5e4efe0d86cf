package load_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strideworks/physioengine/internal/engine/load"
	"github.com/strideworks/physioengine/internal/telemetry/metrics"
)

func TestHandler_HandleRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMocksamplesRepo(ctrl)
	h := load.NewHandler(load.NewAnalyzer(repoMock), metrics.NewTestManager())

	sampleDay := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	reqJson, err := json.Marshal(load.RecordSampleRequest{
		Day:  sampleDay,
		Load: 82.5,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("POST", "", bytes.NewReader(reqJson))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req = mux.SetURLVars(req, map[string]string{"athleteID": "athlete-1"})

	repoMock.EXPECT().
		Upsert(gomock.Any(), load.Sample{
			AthleteID: "athlete-1",
			Day:       sampleDay,
			Load:      82.5,
		}).
		Return(nil)
	repoMock.EXPECT().
		ListAll(gomock.Any(), "athlete-1").
		Return([]load.Sample{
			{AthleteID: "athlete-1", Day: sampleDay, Load: 82.5},
		}, nil)

	h.HandleRecord(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var state load.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.InDelta(t, 82.5, state.Acute, 0.01)
	assert.True(t, state.LowConfidence)
}

func TestHandler_HandleRecord_InvalidRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMocksamplesRepo(ctrl)
	h := load.NewHandler(load.NewAnalyzer(repoMock), metrics.NewTestManager())

	t.Run("missing content type", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req, err := http.NewRequest("POST", "", bytes.NewReader([]byte("{}")))
		require.NoError(t, err)
		req = mux.SetURLVars(req, map[string]string{"athleteID": "athlete-1"})
		h.HandleRecord(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing athlete id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req, err := http.NewRequest("POST", "", bytes.NewReader([]byte("{}")))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		h.HandleRecord(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("zero day", func(t *testing.T) {
		reqJson, err := json.Marshal(load.RecordSampleRequest{Load: 50})
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		req, err := http.NewRequest("POST", "", bytes.NewReader(reqJson))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req = mux.SetURLVars(req, map[string]string{"athleteID": "athlete-1"})
		h.HandleRecord(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("negative load", func(t *testing.T) {
		reqJson, err := json.Marshal(load.RecordSampleRequest{
			Day:  time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			Load: -3,
		})
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		req, err := http.NewRequest("POST", "", bytes.NewReader(reqJson))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req = mux.SetURLVars(req, map[string]string{"athleteID": "athlete-1"})
		h.HandleRecord(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_HandleStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMocksamplesRepo(ctrl)
	h := load.NewHandler(load.NewAnalyzer(repoMock), metrics.NewTestManager())

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	samples := make([]load.Sample, 0, 35)
	for i := 0; i < 35; i++ {
		samples = append(samples, load.Sample{
			AthleteID: "athlete-1",
			Day:       base.AddDate(0, 0, i),
			Load:      70,
		})
	}
	repoMock.EXPECT().
		ListAll(gomock.Any(), "athlete-1").
		Return(samples, nil)

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("GET", "", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"athleteID": "athlete-1"})

	h.HandleStatus(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var state load.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, load.RiskOptimal, state.Zone)
	assert.InDelta(t, 1.0, state.Ratio, 0.02)
	assert.False(t, state.LowConfidence)
}

func TestHandler_HandleStatus_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMocksamplesRepo(ctrl)
	h := load.NewHandler(load.NewAnalyzer(repoMock), metrics.NewTestManager())

	repoMock.EXPECT().
		ListAll(gomock.Any(), "athlete-1").
		Return(nil, errors.New("connection refused"))

	rec := httptest.NewRecorder()
	req, err := http.NewRequest("GET", "", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"athleteID": "athlete-1"})

	h.HandleStatus(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
