// Package backend selects and builds the persistent store from
// configuration. The engine is written once against the store ports; this is
// the only place that knows which concrete medium is in use.
package backend

import (
	"fmt"

	"kamela/internal/config"
	"kamela/internal/services"
	"kamela/internal/store"
)

// Type identifies a storage medium.
type Type string

const (
	SQLite Type = "sqlite"
	Sheets Type = "sheets"
	Memory Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case SQLite, Sheets, Memory:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result holds the built store and optional companions.
type Result struct {
	Store store.Store
	// Events is non-nil when AMQP is configured for the sqlite backend; the
	// sheets and memory backends have no downstream mirror.
	Events  services.EventPublisher
	Cleanup CleanupFunc
}

// Config holds the subset of application config the factory needs.
type Config struct {
	Type Type

	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	GoogleSpreadsheetID string
}

// FromAppConfig converts the application config to a backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := Type(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:                backendType,
		SQLiteDBPath:        appConfig.SQLiteDBPath,
		AMQPURL:             appConfig.AMQPURL,
		AMQPExchange:        appConfig.AMQPExchange,
		AMQPQueue:           appConfig.AMQPQueue,
		GoogleSpreadsheetID: appConfig.GoogleSpreadsheetID,
	}, nil
}
