package notification

import (
	"context"

	"rental-booking/internal/data/entity"

	"go.uber.org/zap"
)

// LogNotifier writes intents to the log. Used when redis is not configured.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.With(zap.String("notifier", "log"))}
}

func (n *LogNotifier) Notify(_ context.Context, intent entity.NotificationIntent) error {
	n.log.Info("Notification intent",
		zap.String("event", string(intent.EventType)),
		zap.String("reservation_id", intent.ReservationID.String()),
		zap.String("reservation_code", intent.ReservationCode),
		zap.String("guest_id", intent.GuestID.String()),
		zap.String("host_id", intent.HostID.String()),
		zap.Time("occurred_at", intent.OccurredAt),
	)
	return nil
}
