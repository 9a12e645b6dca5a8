package sms

import (
	"context"
	"errors"
	"fmt"

	"transport_backend/internal/logger"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Sender отправляет SMS сообщения
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// Config - учетные данные Twilio
type Config struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

func (c Config) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != ""
}

// NewSender возвращает Twilio отправителя или, без учетных данных, LogSender
func NewSender(cfg Config) Sender {
	if !cfg.Enabled() {
		logger.Warn("Twilio credentials are not configured, SMS will only be logged")
		return NewLogSender()
	}
	return NewTwilioSender(cfg)
}

// TwilioSender отправляет SMS через Twilio REST API
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(cfg Config) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &TwilioSender{
		client: client,
		from:   cfg.FromNumber,
	}
}

func (t *TwilioSender) Send(ctx context.Context, to, body string) error {
	if to == "" {
		return errors.New("sms recipient is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(to)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}

	if resp.Sid != nil {
		logger.CtxDebug(ctx, "SMS sent", "to", to, "sid", *resp.Sid)
	}
	return nil
}

// LogSender только пишет сообщение в лог (dev/test без Twilio)
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (l *LogSender) Send(ctx context.Context, to, body string) error {
	logger.CtxInfo(ctx, "SMS (not delivered)", "to", to, "length", len(body))
	return nil
}
