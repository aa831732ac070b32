// Package notify delivers subscriber alerts to the page owner.
// Notifiers are destinations that receive an event whenever a visitor
// submits their address through an email capture section.
package notify

import (
	"context"
	"fmt"
	"time"
)

// Event describes a single captured subscriber.
type Event struct {
	PageID    string
	SectionID string
	Email     string
	When      time.Time
}

// Message renders the event as a human-readable one-liner.
func (e Event) Message() string {
	return fmt.Sprintf("New subscriber %s via section %q on page %s", e.Email, e.SectionID, e.PageID)
}

// Notifier represents a notification destination.
// Implementations include Slack and Email.
type Notifier interface {
	// Name returns the notifier identifier (e.g., "slack", "email").
	Name() string

	// Send delivers the event to the destination.
	// The context can be used for cancellation and timeouts.
	Send(ctx context.Context, ev Event) error

	// Close releases any resources held by the notifier.
	Close() error
}

// Config represents the configuration for a notifier.
type Config struct {
	// Type is the notifier type: "slack" or "email"
	Type string `yaml:"type"`

	// Channel is the Slack channel (for slack type), e.g., "#subscribers"
	Channel string `yaml:"channel,omitempty"`

	// To is the email recipient address (for email type)
	To string `yaml:"to,omitempty"`

	// Subject is the email subject (for email type)
	Subject string `yaml:"subject,omitempty"`
}

// Registry manages a collection of notifiers.
type Registry struct {
	notifiers map[string]Notifier
}

// NewRegistry creates a new notifier registry.
func NewRegistry() *Registry {
	return &Registry{
		notifiers: make(map[string]Notifier),
	}
}

// Register adds a notifier to the registry.
func (r *Registry) Register(name string, n Notifier) {
	r.notifiers[name] = n
}

// Len returns the number of registered notifiers.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.notifiers)
}

// SendAll delivers the event to all registered notifiers.
func (r *Registry) SendAll(ctx context.Context, ev Event) error {
	if r == nil {
		return nil
	}
	var errs []error
	for name, n := range r.notifiers {
		if err := n.Send(ctx, ev); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to notify %d destinations: %v", len(errs), errs)
	}
	return nil
}

// Close closes all registered notifiers.
func (r *Registry) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	for name, n := range r.notifiers {
		if err := n.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to close %d notifiers: %v", len(errs), errs)
	}
	return nil
}

// NewFromConfig creates a notifier from configuration.
// Returns an error if the type is unsupported or configuration is invalid.
func NewFromConfig(cfg Config) (Notifier, error) {
	switch cfg.Type {
	case "slack":
		return NewSlackNotifier(cfg.Channel)
	case "email":
		return NewEmailNotifier(cfg.To, cfg.Subject)
	default:
		return nil, fmt.Errorf("unsupported notifier type: %s", cfg.Type)
	}
}
