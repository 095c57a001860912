// Package config assembles the quiz bot configuration on top of the shared core config.
package config

import (
	"fmt"
	"strings"

	coreconfig "github.com/m3rciful/quizbot/core/config"
	coredatabase "github.com/m3rciful/quizbot/core/database"
)

const (
	defaultExchange   = "quizbot.events"
	defaultDonateText = "Thanks for wanting to support the project! Donations are not set up yet."
)

// EventsConfig points the event publisher at an AMQP broker. Empty URL disables publishing.
type EventsConfig struct {
	URL      string `yaml:"amqp_url" envconfig:"AMQP_URL"`
	Exchange string `yaml:"exchange" envconfig:"AMQP_EXCHANGE"`
}

// OpsConfig configures the health server. Empty Listen disables it.
type OpsConfig struct {
	Listen string `yaml:"listen" envconfig:"OPS_LISTEN"`
}

// QuizConfig holds content settings.
type QuizConfig struct {
	// SeedFile is a YAML question bank loaded when the store has no questions.
	SeedFile   string `yaml:"seed_file" envconfig:"QUIZ_SEED_FILE"`
	DonateText string `yaml:"donate_text" envconfig:"QUIZ_DONATE_TEXT"`
}

// Config is the full application configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Events   EventsConfig        `yaml:"events"`
	Ops      OpsConfig           `yaml:"ops"`
	Quiz     QuizConfig          `yaml:"quiz"`
}

// CoreConfig exposes the shared part to the core runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// Load reads the optional YAML file at path, overlays environment variables and validates.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates every section and fills defaults.
func (c *Config) Normalize() error {
	if err := coreconfig.Normalize(&c.Config); err != nil {
		return err
	}
	if err := c.Database.Normalize(); err != nil {
		return err
	}

	c.Events.URL = strings.TrimSpace(c.Events.URL)
	if c.Events.URL != "" && !strings.HasPrefix(c.Events.URL, "amqp://") && !strings.HasPrefix(c.Events.URL, "amqps://") {
		return fmt.Errorf("events.amqp_url must start with amqp:// or amqps://")
	}
	if strings.TrimSpace(c.Events.Exchange) == "" {
		c.Events.Exchange = defaultExchange
	}

	c.Ops.Listen = strings.TrimSpace(c.Ops.Listen)
	if strings.TrimSpace(c.Quiz.DonateText) == "" {
		c.Quiz.DonateText = defaultDonateText
	}
	return nil
}
