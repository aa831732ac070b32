package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// slackWebhookURLPrefix is the required prefix for Slack webhook URLs.
// This prevents captured addresses from being posted to non-Slack endpoints.
const slackWebhookURLPrefix = "https://hooks.slack.com/"

// validateSlackWebhookURL ensures the webhook URL is a valid Slack webhook.
func validateSlackWebhookURL(url string) error {
	if !strings.HasPrefix(url, slackWebhookURLPrefix) {
		return fmt.Errorf("invalid Slack webhook URL: must start with %s", slackWebhookURLPrefix)
	}
	return nil
}

// SlackNotifier posts subscriber events to a Slack channel via webhook.
type SlackNotifier struct {
	channel    string
	webhookURL string
	client     *http.Client
}

// slackPayload represents the Slack webhook request body.
type slackPayload struct {
	Channel string `json:"channel,omitempty"`
	Text    string `json:"text"`
}

// NewSlackNotifier creates a new Slack notifier.
// The webhook URL is read from the SLACK_WEBHOOK_URL environment variable.
// Channel should be in the format "#channel-name".
func NewSlackNotifier(channel string) (*SlackNotifier, error) {
	webhookURL := os.Getenv("SLACK_WEBHOOK_URL")
	if webhookURL == "" {
		return nil, fmt.Errorf("SLACK_WEBHOOK_URL environment variable not set")
	}
	if err := validateSlackWebhookURL(webhookURL); err != nil {
		return nil, err
	}
	if channel == "" {
		return nil, fmt.Errorf("slack channel is required")
	}

	return &SlackNotifier{
		channel:    channel,
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// NewSlackNotifierForTesting creates a Slack notifier for testing purposes.
// This bypasses webhook URL validation to allow mock servers.
// Do not use in production code.
func NewSlackNotifierForTesting(channel, webhookURL string) (*SlackNotifier, error) {
	if webhookURL == "" {
		return nil, fmt.Errorf("webhook URL is required")
	}
	if channel == "" {
		return nil, fmt.Errorf("slack channel is required")
	}

	return &SlackNotifier{
		channel:    channel,
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Name returns "slack".
func (s *SlackNotifier) Name() string {
	return "slack"
}

// Send posts the event to the Slack channel.
func (s *SlackNotifier) Send(ctx context.Context, ev Event) error {
	payload := slackPayload{
		Channel: s.channel,
		Text:    ev.Message(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send slack message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("slack API error: status %d", resp.StatusCode)
	}

	return nil
}

// Close is a no-op for Slack notifiers.
func (s *SlackNotifier) Close() error {
	return nil
}

// Channel returns the configured channel name.
func (s *SlackNotifier) Channel() string {
	return s.channel
}
