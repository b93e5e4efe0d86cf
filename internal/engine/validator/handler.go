package validator

import (
	"encoding/json"
	"net/http"

	"github.com/strideworks/physioengine/internal/engine/load"
	"github.com/strideworks/physioengine/internal/engine/modifier"
	"github.com/strideworks/physioengine/internal/engine/readiness"
	"github.com/strideworks/physioengine/internal/telemetry/metrics"
	"github.com/strideworks/physioengine/internal/telemetry/tracing"
	"github.com/strideworks/physioengine/pkg"

	log "github.com/sirupsen/logrus"
)

type ValidateRequest struct {
	AthleteID string              `json:"athleteId"`
	Injuries  []modifier.Injury   `json:"injuries"`
	Readiness *readiness.Decision `json:"readiness,omitempty"`
	Load      *load.State         `json:"load,omitempty"`
	Protocol  *Protocol           `json:"protocol,omitempty"`
	Test      ScheduledTest       `json:"test"`
	// Action, when set, additionally answers whether that action is
	// currently allowed.
	Action Action `json:"action,omitempty"`
}

type ValidateResponse struct {
	Result  *Result `json:"result"`
	Action  Action  `json:"action,omitempty"`
	Allowed *bool   `json:"allowed,omitempty"`
}

type Handler struct {
	metrics *metrics.Manager
}

func NewHandler(metricsManager *metrics.Manager) *Handler {
	return &Handler{
		metrics: metricsManager,
	}
}

func (handler *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.validator.validate")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("validate, unmarshal json params: %s", err)
		http.Error(w, "validation failed", http.StatusBadRequest)
		return
	}

	state := State{
		Injuries:  req.Injuries,
		Readiness: req.Readiness,
		Load:      req.Load,
		Protocol:  req.Protocol,
		Test:      req.Test,
	}

	resp := ValidateResponse{}
	if req.Action != "" {
		allowed, result := ValidateAction(state, req.Action)
		resp.Result = result
		resp.Action = req.Action
		resp.Allowed = &allowed
	} else {
		resp.Result = Validate(state)
	}

	for _, b := range resp.Result.Blockers {
		handler.metrics.CounterValidationBlockers.
			WithLabelValues(b.Rule).Inc()
	}

	log.Debugf(
		"validation for [%s]: %d blockers, %d warnings",
		req.AthleteID, len(resp.Result.Blockers), len(resp.Result.Warnings),
	)

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("failed to marshal validation result: %s", err)
		http.Error(w, "failed to marshal validation result", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}
