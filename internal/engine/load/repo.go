package load

import (
	"context"
	"fmt"
	"time"

	"github.com/strideworks/physioengine/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Upsert writes one day's load sample. The ledger is keyed by
// (athlete_id, day) and a same-day resubmission overwrites the previous
// value - last writer wins, no transaction log needed.
func (r *Repo) Upsert(ctx context.Context, sample Sample) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.load.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete_id", sample.AthleteID))
	span.SetAttributes(attribute.String("day", sample.Day.Format(time.DateOnly)))

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO load_sample (athlete_id, day, load)
			VALUES ($1, $2, $3)
			ON CONFLICT (athlete_id, day) DO UPDATE SET load = EXCLUDED.load;`,
		sample.AthleteID, sample.Day.UTC().Truncate(24*time.Hour), sample.Load,
	)
	if err != nil {
		return fmt.Errorf("upsert load sample: %w", err)
	}
	return nil
}

// ListAll returns the athlete's full retained series, ordered by day.
func (r *Repo) ListAll(ctx context.Context, athleteID string) (_ []Sample, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.load.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete_id", athleteID))

	rows, err := r.db.Query(
		ctx,
		`SELECT athlete_id, day, load
			FROM load_sample
			WHERE athlete_id = $1
			ORDER BY day ASC;`,
		athleteID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return rows2samples(rows)
}

// ListRange returns the athlete's samples between from and to inclusive,
// ordered by day.
func (r *Repo) ListRange(ctx context.Context, athleteID string, from, to time.Time) (_ []Sample, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.load.listrange")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete_id", athleteID))
	span.SetAttributes(attribute.String("from", from.Format(time.DateOnly)))
	span.SetAttributes(attribute.String("to", to.Format(time.DateOnly)))

	rows, err := r.db.Query(
		ctx,
		`SELECT athlete_id, day, load
			FROM load_sample
			WHERE athlete_id = $1
			AND day >= $2 AND day <= $3
			ORDER BY day ASC;`,
		athleteID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return rows2samples(rows)
}

func rows2samples(rows pgx.Rows) ([]Sample, error) {
	var samples []Sample
	for rows.Next() {
		var s Sample
		if err := rows.Scan(&s.AthleteID, &s.Day, &s.Load); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		samples = append(samples, s)
	}

	if samples == nil {
		samples = make([]Sample, 0)
	}

	return samples, nil
}
