package validator

import (
	"fmt"

	"github.com/strideworks/physioengine/internal/engine/load"
	"github.com/strideworks/physioengine/internal/engine/modifier"
	"github.com/strideworks/physioengine/internal/engine/readiness"
)

// Action is something the athlete wants to do today.
type Action string

const (
	ActionRun           Action = "run"
	ActionHighIntensity Action = "high_intensity_session"
	ActionFitnessTest   Action = "fitness_test"
	ActionRace          Action = "race"
	ActionStrength      Action = "strength_session"
	ActionCrossTrain    Action = "cross_train"
)

// Severity tags a blocker or warning.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Blocker is a hard, action-denying finding.
type Blocker struct {
	Rule               string   `json:"rule"`
	Severity           Severity `json:"severity"`
	Message            string   `json:"message"`
	RequiredResolution string   `json:"requiredResolution"`
	BlockedActions     []Action `json:"blockedActions"`
}

// Warning is a soft, advisory finding.
type Warning struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Result is recomputed on every query and never persisted.
type Result struct {
	Blockers        []Blocker `json:"blockers"`
	Warnings        []Warning `json:"warnings"`
	Recommendations []string  `json:"recommendations"`
}

// Protocol is the athlete's active training protocol as the surrounding
// application tracks it.
type Protocol struct {
	Name          string `json:"name"`
	HighIntensity bool   `json:"highIntensity"`
}

// ScheduledTest flags a fitness test on today's schedule.
type ScheduledTest struct {
	Scheduled bool   `json:"scheduled"`
	Kind      string `json:"kind,omitempty"`
}

// State is the snapshot the validator reasons about. The caller assembles
// it; the validator never loads anything itself.
type State struct {
	Injuries  []modifier.Injury
	Readiness *readiness.Decision
	Load      *load.State
	Protocol  *Protocol
	Test      ScheduledTest
}

// rule evaluates one concern against the snapshot. Rules run in a fixed
// order: injury outranks protocol outranks readiness outranks schedule, and
// recommendations are emitted in that same order no matter how severe a
// lower-precedence finding is.
type rule func(State) ([]Blocker, []Warning)

var rules = []rule{
	injuryRule,
	protocolRule,
	readinessRule,
	scheduleRule,
}

// Validate runs every rule against the snapshot and assembles the
// prioritized result.
func Validate(s State) *Result {
	res := &Result{
		Blockers:        []Blocker{},
		Warnings:        []Warning{},
		Recommendations: []string{},
	}
	for _, r := range rules {
		blockers, warnings := r(s)
		res.Blockers = append(res.Blockers, blockers...)
		res.Warnings = append(res.Warnings, warnings...)
		for _, b := range blockers {
			res.Recommendations = append(res.Recommendations, recommendation(b))
		}
	}
	return res
}

// ValidateAction answers whether a single action is currently allowed.
// An action is denied when any blocker lists it.
func ValidateAction(s State, action Action) (bool, *Result) {
	res := Validate(s)
	for _, b := range res.Blockers {
		for _, blocked := range b.BlockedActions {
			if blocked == action {
				return false, res
			}
		}
	}
	return true, res
}

func recommendation(b Blocker) string {
	return fmt.Sprintf("[%s] %s: %s", b.Severity, b.Message, b.RequiredResolution)
}

func injuryRule(s State) ([]Blocker, []Warning) {
	var blockers []Blocker
	var warnings []Warning
	for _, inj := range s.Injuries {
		if inj.AffectsGait || inj.LowerLimb {
			blockers = append(blockers, Blocker{
				Rule:               "injury",
				Severity:           SeverityCritical,
				Message:            fmt.Sprintf("active %s injury", inj.Region),
				RequiredResolution: "clearance from medical staff before resuming running",
				BlockedActions:     []Action{ActionRun, ActionHighIntensity, ActionFitnessTest, ActionRace},
			})
			continue
		}
		warnings = append(warnings, Warning{
			Rule:     "injury",
			Severity: SeverityMedium,
			Message:  fmt.Sprintf("active %s injury, monitor during training", inj.Region),
		})
	}
	return blockers, warnings
}

func protocolRule(s State) ([]Blocker, []Warning) {
	if s.Protocol == nil || !s.Protocol.HighIntensity {
		return nil, nil
	}
	// a high-intensity protocol cannot continue while any injury is active
	if len(s.Injuries) > 0 {
		return []Blocker{{
			Rule:               "protocol",
			Severity:           SeverityHigh,
			Message:            fmt.Sprintf("protocol %q paused due to active injury", s.Protocol.Name),
			RequiredResolution: "resume protocol after injury resolution",
			BlockedActions:     []Action{ActionHighIntensity},
		}}, nil
	}
	if s.Load != nil && s.Load.Zone == load.RiskDanger {
		return []Blocker{{
			Rule:               "protocol",
			Severity:           SeverityHigh,
			Message:            fmt.Sprintf("protocol %q incompatible with current load risk", s.Protocol.Name),
			RequiredResolution: "reduce training load until the acute:chronic ratio normalizes",
			BlockedActions:     []Action{ActionHighIntensity},
		}}, nil
	}
	return nil, nil
}

func readinessRule(s State) ([]Blocker, []Warning) {
	if s.Readiness == nil {
		return nil, nil
	}
	switch s.Readiness.Category {
	case readiness.CategoryRest:
		return []Blocker{{
			Rule:               "readiness",
			Severity:           SeverityHigh,
			Message:            fmt.Sprintf("readiness %d/100 requires rest", s.Readiness.Score),
			RequiredResolution: "take a rest day and resubmit wellness tomorrow",
			BlockedActions:     []Action{ActionRun, ActionHighIntensity, ActionFitnessTest, ActionRace, ActionStrength},
		}}, nil
	case readiness.CategoryMajorMod:
		return []Blocker{{
			Rule:               "readiness",
			Severity:           SeverityMedium,
			Message:            fmt.Sprintf("readiness %d/100 allows recovery work only", s.Readiness.Score),
			RequiredResolution: "swap today's plan for active recovery",
			BlockedActions:     []Action{ActionHighIntensity, ActionFitnessTest, ActionRace},
		}}, nil
	case readiness.CategoryMinorMod:
		return nil, []Warning{{
			Rule:     "readiness",
			Severity: SeverityLow,
			Message:  fmt.Sprintf("readiness %d/100, reduce session volume", s.Readiness.Score),
		}}
	default:
		return nil, nil
	}
}

func scheduleRule(s State) ([]Blocker, []Warning) {
	if !s.Test.Scheduled {
		return nil, nil
	}
	// a fitness test is only valid when the athlete can actually express
	// fitness: no active injury, adequate readiness, no load spike
	var why string
	switch {
	case len(s.Injuries) > 0:
		why = "active injury"
	case s.Readiness != nil && s.Readiness.Category != readiness.CategoryProceed:
		why = "reduced readiness"
	case s.Load != nil && (s.Load.Spike || s.Load.Zone == load.RiskDanger):
		why = "elevated load risk"
	default:
		return nil, nil
	}
	return []Blocker{{
		Rule:               "schedule",
		Severity:           SeverityMedium,
		Message:            fmt.Sprintf("scheduled %s test invalid under %s", s.Test.Kind, why),
		RequiredResolution: "reschedule the test for a day with full readiness and no active constraints",
		BlockedActions:     []Action{ActionFitnessTest},
	}}, nil
}
