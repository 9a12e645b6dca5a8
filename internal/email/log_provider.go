package email

import (
	"context"

	"transport_backend/internal/logger"
)

// LogProvider только пишет письма в лог. Используется без SMTP и в разработке.
type LogProvider struct{}

func NewLogProvider() *LogProvider {
	return &LogProvider{}
}

func (p *LogProvider) Send(ctx context.Context, email *Email) error {
	logger.CtxInfo(ctx, "email not sent, SMTP is not configured",
		"to", email.To,
		"subject", email.Subject,
	)
	return nil
}

func (p *LogProvider) Validate() error { return nil }
