// Package report archives concluded engagements and analysis verdicts in
// Postgres. Archiving is optional: without a DSN the service runs fully
// in-memory and nothing here is constructed.
package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/analysis"
	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/dialogue"
)

const schema = `
CREATE TABLE IF NOT EXISTS engagements (
	session_id   TEXT PRIMARY KEY,
	state        TEXT NOT NULL,
	trigger_type TEXT,
	trigger_value TEXT,
	coin         TEXT,
	transcript   JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	concluded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS verdicts (
	id            BIGSERIAL PRIMARY KEY,
	username      TEXT NOT NULL,
	profile_score INT NOT NULL,
	final_verdict DOUBLE PRECISION NOT NULL,
	primary_intent TEXT NOT NULL,
	report        JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store is the Postgres-backed archive.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and ensures the schema exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// SaveEngagement archives a session, typically once it concludes. Upserts
// so a retried archive never duplicates rows.
func (s *Store) SaveEngagement(ctx context.Context, session *dialogue.Session) error {
	transcript, err := json.Marshal(session.Messages)
	if err != nil {
		return fmt.Errorf("encoding transcript: %w", err)
	}

	var triggerType, triggerValue, coin *string
	if session.Trigger != nil {
		t := string(session.Trigger.Type)
		triggerType = &t
		triggerValue = &session.Trigger.Value
		if session.Trigger.Coin != "" {
			coin = &session.Trigger.Coin
		}
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO engagements (session_id, state, trigger_type, trigger_value, coin, transcript, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id) DO UPDATE SET
			state = EXCLUDED.state,
			trigger_type = EXCLUDED.trigger_type,
			trigger_value = EXCLUDED.trigger_value,
			coin = EXCLUDED.coin,
			transcript = EXCLUDED.transcript`,
		session.ID, string(session.State), triggerType, triggerValue, coin, transcript, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("archiving engagement %s: %w", session.ID, err)
	}
	return nil
}

// SaveVerdict archives one analysis report.
func (s *Store) SaveVerdict(ctx context.Context, username string, rep *analysis.Report) error {
	payload, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO verdicts (username, profile_score, final_verdict, primary_intent, report)
		VALUES ($1, $2, $3, $4, $5)`,
		username, rep.ProfileScore, rep.FinalVerdict, rep.Chat.PrimaryIntent, payload)
	if err != nil {
		return fmt.Errorf("archiving verdict for %s: %w", username, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
