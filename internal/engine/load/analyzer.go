package load

import (
	"context"

	"github.com/strideworks/physioengine/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=load_test

type samplesRepo interface {
	Upsert(ctx context.Context, sample Sample) error
	ListAll(ctx context.Context, athleteID string) ([]Sample, error)
}

// Analyzer answers load questions over the sample ledger. The state is
// always recomputed from the full retained series rather than kept as
// incremental counters, so retroactive same-day corrections are reflected
// without drift.
type Analyzer struct {
	repo samplesRepo
}

func NewAnalyzer(repo samplesRepo) *Analyzer {
	return &Analyzer{
		repo: repo,
	}
}

// Status recomputes the athlete's current load state from the ledger.
func (a *Analyzer) Status(ctx context.Context, athleteID string) (_ *State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.load.status")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete_id", athleteID))

	samples, err := a.repo.ListAll(ctx, athleteID)
	if err != nil {
		return nil, err
	}

	state := ComputeState(samples)
	span.SetAttributes(attribute.Float64("ratio", state.Ratio))
	span.SetAttributes(attribute.String("zone", string(state.Zone)))

	return &state, nil
}

// Record upserts one day's sample and returns the recomputed state.
func (a *Analyzer) Record(ctx context.Context, sample Sample) (_ *State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.load.record")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete_id", sample.AthleteID))

	if err := a.repo.Upsert(ctx, sample); err != nil {
		return nil, err
	}

	return a.Status(ctx, sample.AthleteID)
}
