package app

import (
	"mwork_accounts/internal/config"
	"mwork_accounts/internal/email"
	"mwork_accounts/internal/logger"
)

// newMailer: SMTP при email.enabled, иначе письма пишутся в лог
func newMailer(cfg *config.Config) email.Provider {
	if !cfg.Email.Enabled {
		logger.Warn("Email delivery disabled, verification emails are only logged")
		return email.NewLogProvider()
	}

	smtpCfg := email.DefaultConfig()
	smtpCfg.Host = cfg.Email.SMTPHost
	smtpCfg.Port = cfg.Email.SMTPPort
	smtpCfg.Username = cfg.Email.SMTPUsername
	smtpCfg.Password = cfg.Email.SMTPPassword
	if cfg.Email.FromEmail != "" {
		smtpCfg.FromEmail = cfg.Email.FromEmail
	}
	if cfg.Email.FromName != "" {
		smtpCfg.FromName = cfg.Email.FromName
	}

	logger.Info("SMTP email provider initialized", "host", smtpCfg.Host, "port", smtpCfg.Port)
	return email.NewSMTPProvider(smtpCfg)
}
