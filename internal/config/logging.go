package config

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogging applies the level and format settings to the standard logrus logger.
func (c Config) ConfigureLogging() error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(level)

	format := c.LogFormat
	if format == "" && c.IsProduction() {
		format = "json"
	}
	switch format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("log format %q: must be text or json", c.LogFormat)
	}
	return nil
}
