package app

import (
	"fmt"
	"time"

	"dealerhub/internal/notify"
	"dealerhub/internal/store"
	"dealerhub/pkg/storage"
)

const defaultPhotoURLTTL = 15 * time.Minute

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL        string
	Store              store.Store
	Sessions           store.SessionStore
	Photos             storage.PhotoStore
	Notifier           notify.Publisher
	AllowResolveClosed bool
	PhotoURLTTL        time.Duration
}

// App is the core application service wiring storage, sessions, photo
// storage, and notifications behind the workflow operations.
type App struct {
	store              store.Store
	sessions           store.SessionStore
	photos             storage.PhotoStore
	notifier           notify.Publisher
	allowResolveClosed bool
	photoURLTTL        time.Duration
}

// New constructs the application. A Store and SessionStore may be injected
// (tests, local development); otherwise the database-backed store is opened
// from DatabaseURL.
func New(cfg Config) (*App, error) {
	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		var err error
		dataStore, err = store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.NopPublisher{}
	}
	photoURLTTL := cfg.PhotoURLTTL
	if photoURLTTL <= 0 {
		photoURLTTL = defaultPhotoURLTTL
	}
	return &App{
		store:              dataStore,
		sessions:           cfg.Sessions,
		photos:             cfg.Photos,
		notifier:           notifier,
		allowResolveClosed: cfg.AllowResolveClosed,
		photoURLTTL:        photoURLTTL,
	}, nil
}
