package email

import (
	"context"

	"mwork_accounts/internal/logger"
)

// LogProvider пишет письма в лог вместо отправки (email.enabled = false)
type LogProvider struct{}

func NewLogProvider() *LogProvider {
	return &LogProvider{}
}

func (p *LogProvider) Send(ctx context.Context, email *Email) error {
	logger.CtxInfo(ctx, "email delivery disabled, message dropped",
		"to", email.To,
		"subject", email.Subject,
	)
	return nil
}
