package load

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/strideworks/physioengine/internal/telemetry/metrics"
	"github.com/strideworks/physioengine/internal/telemetry/tracing"
	"github.com/strideworks/physioengine/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type loadAnalyzer interface {
	Status(ctx context.Context, athleteID string) (*State, error)
	Record(ctx context.Context, sample Sample) (*State, error)
}

type RecordSampleRequest struct {
	Day  time.Time `json:"day"`
	Load float64   `json:"load"`
}

type Handler struct {
	analyzer loadAnalyzer
	metrics  *metrics.Manager
}

func NewHandler(analyzer loadAnalyzer, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		analyzer: analyzer,
		metrics:  metricsManager,
	}
}

func (handler *Handler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.load.record")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	athleteID := vars["athleteID"]
	if athleteID == "" {
		http.Error(w, "error, athlete id empty", http.StatusBadRequest)
		return
	}

	var req RecordSampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("record load sample, unmarshal json params: %s", err)
		http.Error(w, "record load sample failed", http.StatusBadRequest)
		return
	}

	if req.Day.IsZero() {
		http.Error(w, "error, day empty", http.StatusBadRequest)
		return
	}
	if req.Load < 0 {
		http.Error(w, "error, load negative", http.StatusBadRequest)
		return
	}

	state, err := handler.analyzer.Record(ctx, Sample{
		AthleteID: athleteID,
		Day:       req.Day,
		Load:      req.Load,
	})
	if err != nil {
		log.Errorf("failed to record load sample for [%s]: %s", athleteID, err)
		http.Error(w, "error, failed to record load sample", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterLoadSamples.Inc()
	log.Debugf("load sample recorded: [%s] %s: %.1f", athleteID, req.Day.Format(time.DateOnly), req.Load)

	stateJson, err := json.Marshal(state)
	if err != nil {
		log.Errorf("failed to marshal load state: %s", err)
		http.Error(w, "error, failed to record load sample", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, stateJson, http.StatusCreated)
}

func (handler *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.load.status")
	defer span.End()

	vars := mux.Vars(r)
	athleteID := vars["athleteID"]
	if athleteID == "" {
		http.Error(w, "error, athlete id empty", http.StatusBadRequest)
		return
	}

	state, err := handler.analyzer.Status(ctx, athleteID)
	if err != nil {
		log.Errorf("failed to get load status for [%s]: %s", athleteID, err)
		http.Error(w, "failed to get load status", http.StatusInternalServerError)
		return
	}

	stateJson, err := json.Marshal(state)
	if err != nil {
		log.Errorf("failed to marshal load state: %s", err)
		http.Error(w, "failed to marshal load state", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, stateJson, http.StatusOK)
}
