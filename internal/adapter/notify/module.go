package notify

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"orderdesk/internal/config"
)

// Module wires the notification publisher. Without AMQP_URL the noop
// publisher is used and notifications are silently skipped.
var Module = fx.Options(
	fx.Provide(newPublisher),
	fx.Invoke(registerLifecycle),
)

type publisherParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newPublisher(p publisherParams) (Publisher, error) {
	if p.Config.AMQPURL == "" {
		p.Logger.Info("notifications disabled, no AMQP broker configured")
		return NoopPublisher{}, nil
	}
	return NewAMQPPublisher(p.Config.AMQPURL, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, publisher Publisher) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})
}
