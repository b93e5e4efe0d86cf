package readiness

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/strideworks/physioengine/internal/engine/load"
	"github.com/strideworks/physioengine/internal/telemetry/metrics"
	"github.com/strideworks/physioengine/internal/telemetry/tracing"
	"github.com/strideworks/physioengine/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=readiness_test

type loadStatusProvider interface {
	Status(ctx context.Context, athleteID string) (*load.State, error)
}

type Handler struct {
	loadStatus loadStatusProvider
	metrics    *metrics.Manager
}

func NewHandler(loadStatus loadStatusProvider, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		loadStatus: loadStatus,
		metrics:    metricsManager,
	}
}

// HandleScore computes today's readiness decision from the submitted
// wellness input and the athlete's current load state. The decision is
// returned to the caller, not persisted.
func (handler *Handler) HandleScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.readiness.score")
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

	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Errorf("readiness score, unmarshal json params: %s", err)
		http.Error(w, "readiness scoring failed", http.StatusBadRequest)
		return
	}

	loadState, err := handler.loadStatus.Status(ctx, athleteID)
	if err != nil {
		// an empty or unreachable ledger must not block the wellness
		// decision, the load modifier is simply skipped
		if !errors.Is(err, context.Canceled) {
			log.Warnf("readiness score for [%s], load status unavailable: %s", athleteID, err)
		}
		loadState = nil
	}

	decision := Score(input, loadState)
	handler.metrics.CounterReadinessDecisions.
		WithLabelValues(string(decision.Category)).Inc()

	log.Debugf(
		"readiness decision for [%s]: %d/100 -> %s",
		athleteID, decision.Score, decision.Category,
	)

	decisionJson, err := json.Marshal(decision)
	if err != nil {
		log.Errorf("failed to marshal readiness decision: %s", err)
		http.Error(w, "failed to marshal readiness decision", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, decisionJson, http.StatusOK)
}
