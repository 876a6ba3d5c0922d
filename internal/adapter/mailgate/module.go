package mailgate

import (
	"log/slog"

	"go.uber.org/fx"

	"orderdesk/internal/config"
)

// Module wires the mail gateway client.
var Module = fx.Options(
	fx.Provide(newClient),
)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.MailGatewayAddress, p.Config.MailTimeout, p.Logger)
}
