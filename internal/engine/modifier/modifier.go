package modifier

import (
	"errors"
	"fmt"
	"time"

	"github.com/strideworks/physioengine/internal/engine/crosstrain"
	"github.com/strideworks/physioengine/internal/engine/readiness"
)

// Action says what happened to the planned session.
type Action string

const (
	ActionKeep       Action = "keep"
	ActionReduce     Action = "reduce"
	ActionRecovery   Action = "active_recovery"
	ActionCrossTrain Action = "cross_train"
	ActionCancel     Action = "cancel"
)

// Session is a planned workout.
type Session struct {
	Modality crosstrain.Modality `json:"modality"`
	Duration time.Duration       `json:"duration"`
	Zone     int                 `json:"zone"`
	Notes    string              `json:"notes,omitempty"`
}

// Injury describes an active injury constraint.
type Injury struct {
	Region      string `json:"region"`
	AffectsGait bool   `json:"affectsGait"`
	LowerLimb   bool   `json:"lowerLimb"`
	Description string `json:"description,omitempty"`
}

// Outcome is the result of applying readiness and injury constraints to a
// planned session. Session is nil when the day ends with no training at all.
type Outcome struct {
	Action  Action   `json:"action"`
	Session *Session `json:"session,omitempty"`
	Reasons []string `json:"reasons"`
}

const (
	minorReductionShare = 0.20

	recoveryDuration = 30 * time.Minute
	recoveryZone     = 1
)

// recoverySession is the active recovery template: half an hour in zone 1,
// lowest-impact modality available.
func recoverySession() *Session {
	return &Session{
		Modality: crosstrain.ModalityWalking,
		Duration: recoveryDuration,
		Zone:     recoveryZone,
		Notes:    "active recovery: walk, easy swim or mobility work",
	}
}

// Modify applies injury and readiness constraints to a planned session and
// returns the adjusted plan. It is a pure function of its inputs: calling it
// twice with the same arguments yields the same outcome, and it never
// mutates the planned session.
//
// Injury constraints dominate readiness: a gait-affecting injury removes
// running from the plan regardless of how well the athlete slept.
func Modify(planned Session, decision readiness.Decision, injuries []Injury) (*Outcome, error) {
	if planned.Duration <= 0 {
		return nil, errors.New("planned session duration must be positive")
	}

	if out := applyInjuries(planned, injuries); out != nil {
		return out, nil
	}
	return applyReadiness(planned, decision), nil
}

// applyInjuries handles the injury-dominance pass. It returns nil when no
// injury constrains the planned session and readiness rules should decide.
func applyInjuries(planned Session, injuries []Injury) *Outcome {
	if planned.Modality != crosstrain.ModalityRunning {
		return nil
	}

	for _, inj := range injuries {
		if !inj.AffectsGait && !inj.LowerLimb {
			continue
		}

		// running is off the table; prescribe whatever substitute the
		// injured region still allows, at equivalent volume
		reason := fmt.Sprintf("injury (%s) rules out running", inj.Region)
		rec, err := crosstrain.Recommend(planned.Duration, inj.Region)
		if err != nil {
			return &Outcome{
				Action:  ActionCancel,
				Reasons: []string{reason, "no substitute modality available"},
			}
		}
		return &Outcome{
			Action: ActionCrossTrain,
			Session: &Session{
				Modality: rec.Modality,
				Duration: rec.Duration,
				Zone:     planned.Zone,
				Notes:    planned.Notes,
			},
			Reasons: []string{reason},
		}
	}
	return nil
}

func applyReadiness(planned Session, decision readiness.Decision) *Outcome {
	switch decision.Category {
	case readiness.CategoryProceed:
		s := planned
		return &Outcome{
			Action:  ActionKeep,
			Session: &s,
			Reasons: decision.Reasons,
		}
	case readiness.CategoryMinorMod:
		s := planned
		s.Duration = time.Duration(float64(planned.Duration) * (1 - minorReductionShare))
		return &Outcome{
			Action:  ActionReduce,
			Session: &s,
			Reasons: append([]string{"duration reduced 20%"}, decision.Reasons...),
		}
	case readiness.CategoryMajorMod:
		return &Outcome{
			Action:  ActionRecovery,
			Session: recoverySession(),
			Reasons: append([]string{"replaced with active recovery"}, decision.Reasons...),
		}
	default: // readiness.CategoryRest
		return &Outcome{
			Action:  ActionCancel,
			Reasons: append([]string{"rest day"}, decision.Reasons...),
		}
	}
}
