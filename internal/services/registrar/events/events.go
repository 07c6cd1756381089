// Package events feeds registrar activity into the analytics store
package events

import (
	"context"

	"monreg/internal/platform/logger"
	"monreg/internal/platform/store"
	"monreg/internal/services/registrar/domain"

	"github.com/google/uuid"
)

// Sink receives registrar events after a successful mutation
// emission is best-effort and must never fail the calling operation
type Sink interface {
	Emit(ctx context.Context, ev domain.Event)
}

// Noop drops every event
type Noop struct{}

// Emit implements Sink
func (Noop) Emit(context.Context, domain.Event) {}

// CH appends events to the registrar_events clickhouse table
type CH struct {
	ch  store.Clickhouse
	log logger.Logger
}

// NewCH builds a clickhouse sink; pass a nil seam to get a Noop back
func NewCH(ch store.Clickhouse, log logger.Logger) Sink {
	if ch == nil {
		return Noop{}
	}
	return &CH{ch: ch, log: log}
}

// Emit implements Sink; failures are logged and swallowed
func (s *CH) Emit(ctx context.Context, ev domain.Event) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	rows := [][]any{{
		ev.ID, ev.Kind, ev.Name, ev.Owner, ev.Cost, ev.ExpiresAt, ev.At,
	}}
	if err := s.ch.Insert(ctx, "registrar_events (id, kind, name, owner, cost, expires_at, at)", rows); err != nil {
		s.log.Warn().Err(err).Str("kind", ev.Kind).Str("name", ev.Name).Msg("event emit failed")
	}
}
