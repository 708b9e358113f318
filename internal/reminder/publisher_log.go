package reminder

import (
	"context"
	"log/slog"
)

// LogPublisher writes reminders to the log. It is used when no brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, n Notification) error {
	p.logger.InfoContext(ctx, "vaccination reminder",
		"kind", string(n.Kind),
		"vaccination_id", n.VaccinationID.String(),
		"farmer_id", n.FarmerID.String(),
		"vaccine", n.VaccineName,
		"next_due_date", n.NextDueDate,
	)
	return nil
}
