package service

import (
	"context"
	"errors"
	"math"

	"ecr/internal/apperr"
	"ecr/internal/domain"
	"ecr/internal/events"
	"ecr/pkg/logger"

	"gorm.io/gorm"
)

// Actor is the authenticated principal an operation runs on behalf of.
type Actor struct {
	ID   uint
	Role domain.Role
}

func (a Actor) IsAdmin() bool { return a.Role == domain.RoleAdmin }

// notFound turns a missing row into a NotFound error and passes anything
// else through.
func notFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(msg)
	}
	return err
}

// publish is best effort: the state change it reports is already committed.
func publish(ctx context.Context, sink events.Sink, e events.Event) {
	if sink == nil {
		return
	}
	if err := sink.Publish(ctx, e); err != nil {
		logger.Warn(ctx).Err(err).Str("event_type", e.Type).Uint("property_id", e.PropertyID).Msg("event publish failed")
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
