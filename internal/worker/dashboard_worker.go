package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/streamflix/catalog-service/internal/events"
	"github.com/streamflix/catalog-service/internal/service"
)

// StartDashboardWorker subscribes the dashboard cache to catalog changes so
// cached aggregates never outlive the data they summarize by more than one
// request.
func StartDashboardWorker(dispatcher events.Dispatcher, dashboard *service.DashboardService, logger *zap.Logger) {
	if dispatcher == nil || dashboard == nil {
		return
	}

	invalidate := func(ctx context.Context, event events.Event) error {
		logger.Debug("invalidating dashboard cache", zap.String("event", string(event.Type)))
		dashboard.Invalidate(ctx)
		return nil
	}

	dispatcher.Subscribe(events.EventRatingCreated, invalidate)
	dispatcher.Subscribe(events.EventMovieCreated, invalidate)
	dispatcher.Subscribe(events.EventMovieUpdated, invalidate)
	dispatcher.Subscribe(events.EventUserRegistered, invalidate)
}
