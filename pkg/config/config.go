// Package config loads process configuration from the environment, the
// way the teacher's matching-engine service does (its benchmark harness
// constructs a config.Config carrying Pair, and the monorepo's other
// services load theirs with caarlos0/env).
package config

import "github.com/caarlos0/env/v11"

// Config is the matching engine process configuration.
type Config struct {
	// Pair is the traded symbol. Fixed to BTC-USD; multi-pair is a Non-goal.
	Pair string `env:"PAIR" envDefault:"BTC-USD"`

	// CommandQueueSize bounds the dispatcher's inbound command channel.
	// Zero or a negative value makes the engine use its default size (1024).
	CommandQueueSize int `env:"COMMAND_QUEUE_SIZE" envDefault:"1024"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Kafka KafkaConfig `envPrefix:"KAFKA_"`
}

// KafkaConfig configures the optional Kafka command-ingress adapter.
type KafkaConfig struct {
	Brokers    []string `env:"BROKERS" envDefault:"localhost:9092" envSeparator:","`
	OrderTopic string   `env:"ORDER_TOPIC" envDefault:"orders"`
	MatchTopic string   `env:"MATCH_TOPIC" envDefault:"matches"`
	GroupID    string   `env:"GROUP_ID" envDefault:"matching-engine"`
}

// Load parses configuration from environment variables, applying defaults
// for anything unset.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
