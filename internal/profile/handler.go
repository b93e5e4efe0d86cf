package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/strideworks/physioengine/internal/engine/threshold"
	"github.com/strideworks/physioengine/internal/engine/zones"
	"github.com/strideworks/physioengine/internal/telemetry/metrics"
	"github.com/strideworks/physioengine/internal/telemetry/tracing"
	"github.com/strideworks/physioengine/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=profile_test

type snapshotStore interface {
	Get(ctx context.Context, athleteID string) (*Snapshot, error)
	Apply(ctx context.Context, snap Snapshot, force bool) error
}

type LactateTestRequest struct {
	AthleteID string                  `json:"athleteId"`
	Stages    []threshold.StageSample `json:"stages"`
	MaxHR     int                     `json:"maxHR"`
	Age       int                     `json:"age"`
	Force     bool                    `json:"force"`
}

type FieldTestRequest struct {
	AthleteID string              `json:"athleteId"`
	Test      threshold.FieldTest `json:"test"`
	Age       int                 `json:"age"`
	Force     bool                `json:"force"`
}

type RaceTestRequest struct {
	AthleteID  string                 `json:"athleteId"`
	Distance   threshold.RaceDistance `json:"distance"`
	FinishTime time.Duration          `json:"finishTime"`
	Beginner   bool                   `json:"beginner"`
	MaxHR      int                    `json:"maxHR"`
	Age        int                    `json:"age"`
	Force      bool                   `json:"force"`
}

type Handler struct {
	store         snapshotStore
	metrics       *metrics.Manager
	maxDriftOfHRR float64
}

func NewHandler(store snapshotStore, metricsManager *metrics.Manager, maxDriftOfHRR float64) *Handler {
	return &Handler{
		store:         store,
		metrics:       metricsManager,
		maxDriftOfHRR: maxDriftOfHRR,
	}
}

func (handler *Handler) HandleLactateTest(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.lactateTest")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req LactateTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("lactate test, unmarshal json params: %s", err)
		http.Error(w, "lactate test submission failed", http.StatusBadRequest)
		return
	}
	if req.AthleteID == "" {
		http.Error(w, "error, athlete id empty", http.StatusBadRequest)
		return
	}

	maxHR, err := resolveMaxHR(req.MaxHR, req.Age)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pair, err := threshold.EstimateFromStages(req.Stages)
	if err != nil {
		log.Errorf("lactate test estimation for [%s]: %s", req.AthleteID, err)
		http.Error(w, "lactate test estimation failed", http.StatusBadRequest)
		return
	}

	handler.applyAndRespond(ctx, w, req.AthleteID, pair, maxHR, req.Force)
}

func (handler *Handler) HandleFieldTest(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.fieldTest")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req FieldTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("field test, unmarshal json params: %s", err)
		http.Error(w, "field test submission failed", http.StatusBadRequest)
		return
	}
	if req.AthleteID == "" {
		http.Error(w, "error, athlete id empty", http.StatusBadRequest)
		return
	}

	maxHR, err := resolveMaxHR(req.Test.MaxHR, req.Age)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.Test.MaxHR = maxHR

	pair, err := threshold.EstimateFromFieldTest(req.Test, threshold.FieldTestOptions{
		MaxDriftOfReserve: handler.maxDriftOfHRR,
	})
	if err != nil {
		log.Errorf("field test estimation for [%s]: %s", req.AthleteID, err)
		http.Error(w, "field test estimation failed", http.StatusBadRequest)
		return
	}

	handler.applyAndRespond(ctx, w, req.AthleteID, pair, maxHR, req.Force)
}

func (handler *Handler) HandleRaceTest(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.raceTest")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req RaceTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("race result, unmarshal json params: %s", err)
		http.Error(w, "race result submission failed", http.StatusBadRequest)
		return
	}
	if req.AthleteID == "" {
		http.Error(w, "error, athlete id empty", http.StatusBadRequest)
		return
	}

	maxHR, err := resolveMaxHR(req.MaxHR, req.Age)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pair, err := threshold.EstimateFromRace(threshold.RaceResult{
		Distance:   req.Distance,
		FinishTime: req.FinishTime,
		Beginner:   req.Beginner,
		MaxHR:      maxHR,
	})
	if err != nil {
		log.Errorf("race estimation for [%s]: %s", req.AthleteID, err)
		http.Error(w, "race estimation failed", http.StatusBadRequest)
		return
	}

	handler.applyAndRespond(ctx, w, req.AthleteID, pair, maxHR, req.Force)
}

func (handler *Handler) HandleGetZones(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.getZones")
	defer span.End()

	vars := mux.Vars(r)
	athleteID := vars["athleteID"]
	if athleteID == "" {
		http.Error(w, "error, athlete id empty", http.StatusBadRequest)
		return
	}

	snap, err := handler.store.Get(ctx, athleteID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "athlete profile not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get profile for [%s]: %s", athleteID, err)
		http.Error(w, "failed to get athlete profile", http.StatusInternalServerError)
		return
	}

	snapJson, err := json.Marshal(snap)
	if err != nil {
		log.Errorf("failed to marshal profile: %s", err)
		http.Error(w, "failed to marshal athlete profile", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, snapJson, http.StatusOK)
}

func (handler *Handler) applyAndRespond(
	ctx context.Context,
	w http.ResponseWriter,
	athleteID string,
	pair *threshold.Pair,
	maxHR int,
	force bool,
) {
	table, err := zones.Generate(pair.LT1, pair.LT2, maxHR)
	if err != nil {
		log.Errorf("zone generation for [%s]: %s", athleteID, err)
		http.Error(w, "zone generation failed", http.StatusBadRequest)
		return
	}

	snap := Snapshot{
		AthleteID: athleteID,
		LT1:       pair.LT1,
		LT2:       pair.LT2,
		Zones:     *table,
		UpdatedAt: time.Now(),
	}

	if err := handler.store.Apply(ctx, snap, force); err != nil {
		if errors.Is(err, ErrLowerConfidence) {
			http.Error(w, "estimate confidence lower than stored profile, use force to override", http.StatusConflict)
			return
		}
		log.Errorf("failed to apply profile for [%s]: %s", athleteID, err)
		http.Error(w, "failed to apply athlete profile", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterThresholdEstimates.
		WithLabelValues(pair.LT2.Method.String()).Inc()
	log.Debugf(
		"profile updated for [%s] via %s: lt2 %.1f @ %d bpm",
		athleteID, pair.LT2.Method, pair.LT2.Intensity, pair.LT2.HeartRate,
	)

	snapJson, err := json.Marshal(snap)
	if err != nil {
		log.Errorf("failed to marshal profile: %s", err)
		http.Error(w, "failed to marshal athlete profile", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, snapJson, http.StatusCreated)
}

func resolveMaxHR(maxHR, age int) (int, error) {
	if maxHR > 0 {
		return maxHR, nil
	}
	if age > 0 {
		return zones.EstimateMaxHR(age), nil
	}
	return 0, errors.New("error, max heart rate or age required")
}
