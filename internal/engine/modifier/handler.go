package modifier

import (
	"encoding/json"
	"net/http"

	"github.com/strideworks/physioengine/internal/engine/readiness"
	"github.com/strideworks/physioengine/internal/telemetry/tracing"
	"github.com/strideworks/physioengine/pkg"

	log "github.com/sirupsen/logrus"
)

type ModifyRequest struct {
	Session   Session            `json:"session"`
	Decision  readiness.Decision `json:"decision"`
	Injuries  []Injury           `json:"injuries"`
	AthleteID string             `json:"athleteId"`
}

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// HandleModify applies readiness and injury constraints to a planned
// session and returns the concrete replacement. Nothing is persisted, the
// same request always yields the same outcome.
func (handler *Handler) HandleModify(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.modifier.modify")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req ModifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("modify workout, unmarshal json params: %s", err)
		http.Error(w, "workout modification failed", http.StatusBadRequest)
		return
	}

	outcome, err := Modify(req.Session, req.Decision, req.Injuries)
	if err != nil {
		log.Errorf("modify workout for [%s]: %s", req.AthleteID, err)
		http.Error(w, "workout modification failed", http.StatusBadRequest)
		return
	}

	log.Debugf("workout modified for [%s]: %s", req.AthleteID, outcome.Action)

	outcomeJson, err := json.Marshal(outcome)
	if err != nil {
		log.Errorf("failed to marshal modification outcome: %s", err)
		http.Error(w, "failed to marshal modification outcome", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, outcomeJson, http.StatusOK)
}
