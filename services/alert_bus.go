package services

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/omoarwwa-coder/ayman-ai/models"
)

// EventPublisher receives state changes from the App.
type EventPublisher interface {
	Publish(ev models.Event)
}

// AlertBus fans App events out to websocket subscribers.
type AlertBus struct {
	rt     *RealtimeHub
	logger zerolog.Logger
}

func NewAlertBus(rt *RealtimeHub, logger zerolog.Logger) *AlertBus {
	return &AlertBus{rt: rt, logger: logger}
}

func (b *AlertBus) Publish(ev models.Event) {
	if b == nil || b.rt == nil {
		return
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	if err := b.rt.Broadcast(ev); err != nil {
		b.logger.Warn().Err(err).Str("kind", ev.Kind).Msg("realtime: broadcast failed")
	}
}
