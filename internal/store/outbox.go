package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Breezy-Bae/ddl.github.io/internal/outbox"
)

// notifyChannel is the LISTEN/NOTIFY channel the outbox listener drains.
const notifyChannel = "auction_outbox_events"

// InsertOutbox writes an outbox row inside the current transaction and
// notifies the listener. The NOTIFY fires only when the transaction commits,
// so observers never see events for rolled-back mutations.
func (t *pgTx) InsertOutbox(ctx context.Context, eventType string, payload []byte) error {
	id := uuid.New()
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO auction_outbox (id, event_type, payload, created_at)
		VALUES ($1, $2, $3, now())
	`, id, eventType, payload)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	if _, err := t.q.ExecContext(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, id.String()); err != nil {
		return fmt.Errorf("failed to notify outbox channel: %w", err)
	}
	return nil
}

// OutboxByID fetches a single outbox event.
func (s *Store) OutboxByID(ctx context.Context, id uuid.UUID) (*outbox.Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, event_type, payload, created_at, sent_at
		FROM auction_outbox
		WHERE id = $1
	`, id)

	var ev outbox.Event
	var sentAt sql.NullTime
	err := row.Scan(&ev.ID, &ev.EventType, &ev.Payload, &ev.CreatedAt, &sentAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch outbox event: %w", err)
	}
	if sentAt.Valid {
		ev.SentAt = &sentAt.Time
	}
	return &ev, nil
}

// UnsentOutbox returns events that were never relayed, oldest first.
func (s *Store) UnsentOutbox(ctx context.Context, limit int) ([]outbox.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_type, payload, created_at
		FROM auction_outbox
		WHERE sent_at IS NULL
		ORDER BY created_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}
	defer rows.Close()

	var events []outbox.Event
	for rows.Next() {
		var ev outbox.Event
		if err := rows.Scan(&ev.ID, &ev.EventType, &ev.Payload, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// MarkOutboxSent stamps an event as relayed.
func (s *Store) MarkOutboxSent(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, s.db, `UPDATE auction_outbox SET sent_at = now() WHERE id = $1`, id)
}
