package email

import "time"

// SMTPConfig содержит конфигурацию SMTP сервера
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From - полный заголовок, например "Transport" <noreply@example.com>
	From string
	// UseTLS - неявный TLS (порт 465); иначе STARTTLS, если сервер его предлагает
	UseTLS  bool
	Timeout time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *SMTPConfig {
	return &SMTPConfig{
		Host:    "localhost",
		Port:    587,
		Timeout: 30 * time.Second,
	}
}
