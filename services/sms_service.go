package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SMSSender delivers one text message. The Twilio implementation is
// used in production; when Twilio credentials are absent the sender
// degrades to logging the message, which keeps local development and
// tests off the wire.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

func (c TwilioConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != ""
}

type twilioSender struct {
	cfg    TwilioConfig
	client *http.Client
	logger *slog.Logger
}

func NewSMSSender(cfg TwilioConfig, logger *slog.Logger) SMSSender {
	if !cfg.Enabled() {
		logger.Warn("twilio credentials not configured, sms delivery disabled")
		return &logSender{logger: logger}
	}
	return &twilioSender{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// Send posts to the Twilio Messages endpoint with basic auth.
func (s *twilioSender) Send(ctx context.Context, to, body string) error {
	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", s.cfg.AccountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.cfg.FromNumber)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build twilio request: %w", err)
	}
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("twilio returned status %d: %s", resp.StatusCode, string(payload))
	}

	s.logger.Info("sms sent", slog.String("to", to))
	return nil
}

type logSender struct {
	logger *slog.Logger
}

func (s *logSender) Send(_ context.Context, to, body string) error {
	s.logger.Info("sms delivery skipped", slog.String("to", to), slog.String("body", body))
	return nil
}
