package config

// NotifxConfig configures the notification system.
type NotifxConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	AWSRegion   string
	SMTP        SMTPConfig
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

func loadNotifxConfig() NotifxConfig {
	return NotifxConfig{
		Provider:    getEnv("NOTIFX_PROVIDER", "console"),
		FromAddress: getEnv("NOTIFX_FROM_ADDRESS", getEnv("EMAIL_FROM_ADDRESS", "noreply@storefront.local")),
		FromName:    getEnv("NOTIFX_FROM_NAME", getEnv("EMAIL_FROM_NAME", "Storefront")),
		AWSRegion:   getEnv("NOTIFX_AWS_REGION", getEnv("AWS_REGION", "us-east-1")),
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
		},
	}
}

func (n NotifxConfig) validate() error {
	switch n.Provider {
	case "console", "ses":
		return nil
	case "smtp":
		if n.SMTP.Host == "" {
			return invalid("SMTP_HOST", "required when NOTIFX_PROVIDER=smtp")
		}
		return nil
	}
	return invalid("NOTIFX_PROVIDER", "must be console, ses or smtp")
}
