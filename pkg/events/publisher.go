package events

import (
	"context"
)

type Publisher interface {
	PublishAnalysisCompleted(ctx context.Context, msg AnalysisCompleted) error
	Close() error
}

type Settings struct {
	// Publish analysis events (default: false)
	Enabled bool `mapstructure:"enabled"`
	// Broker URL, required when enabled
	URL string `mapstructure:"url" validate:"required_if=Enabled true"`
	// Topic exchange (default: finhealth.events)
	Exchange string `mapstructure:"exchange" validate:"required_if=Enabled true"`
	// Routing key (default: analysis.completed)
	RoutingKey string `mapstructure:"routing_key" validate:"required_if=Enabled true"`
}

func DefaultSettings() Settings {
	return Settings{
		Exchange:   "finhealth.events",
		RoutingKey: "analysis.completed",
	}
}

// NewPublisher connects to the broker when events are enabled and returns a no-op publisher otherwise.
func NewPublisher(settings Settings) (Publisher, error) {
	if !settings.Enabled {
		return NoopPublisher{}, nil
	}
	return DialAMQP(settings)
}

type NoopPublisher struct{}

func (NoopPublisher) PublishAnalysisCompleted(context.Context, AnalysisCompleted) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
