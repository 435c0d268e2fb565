package main

import (
	"database/sql"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/Breezy-Bae/ddl.github.io/internal/api"
	"github.com/Breezy-Bae/ddl.github.io/internal/dbconfig"
	"github.com/Breezy-Bae/ddl.github.io/internal/engine"
	"github.com/Breezy-Bae/ddl.github.io/internal/gateway"
	"github.com/Breezy-Bae/ddl.github.io/internal/outbox"
	"github.com/Breezy-Bae/ddl.github.io/internal/store"
)

type Services struct {
	Store             *store.Store
	Engine            *engine.App
	Handler           *api.Handler
	OutboxListener    *outbox.Listener
	ConnectionManager *gateway.ConnectionManager
	WebSocketHandler  *gateway.WebSocketHandler
	EventConsumer     *gateway.EventConsumer
	Publisher         *outbox.JetStreamPublisher
}

func setupServices(database *sql.DB, dbCfg dbconfig.Config, cfg *Config) (*Services, error) {
	// Wire up dependency injection chain
	// Database → Store → Engine → API, plus the outbox relay and the
	// WebSocket gateway on the event stream.
	st := store.New(database)
	eng := engine.NewApp(st, clockwork.NewRealClock())
	handler := api.NewHandler(eng, st)

	natsURL := getEnv("NATS_URL", cfg.NATS.URL)

	publisherCfg := outbox.DefaultJetStreamConfig()
	if natsURL != "" {
		publisherCfg.URL = natsURL
	}
	publisher, err := outbox.NewJetStreamPublisher(publisherCfg)
	if err != nil {
		return nil, fmt.Errorf("setup publisher: %w", err)
	}

	listenerCfg := outbox.DefaultListenerConfig()
	listenerCfg.DatabaseURL = dbCfg.DSN()
	listener, err := outbox.NewListener(st, publisher, listenerCfg)
	if err != nil {
		publisher.Close()
		return nil, fmt.Errorf("setup outbox listener: %w", err)
	}

	cm := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	wsHandler := gateway.NewWebSocketHandler(cm)

	consumerCfg := gateway.DefaultJetStreamConsumerConfig()
	if natsURL != "" {
		consumerCfg.URL = natsURL
	}
	consumer, err := gateway.NewEventConsumer(cm, consumerCfg)
	if err != nil {
		listener.Stop()
		publisher.Close()
		return nil, fmt.Errorf("setup event consumer: %w", err)
	}

	return &Services{
		Store:             st,
		Engine:            eng,
		Handler:           handler,
		OutboxListener:    listener,
		ConnectionManager: cm,
		WebSocketHandler:  wsHandler,
		EventConsumer:     consumer,
		Publisher:         publisher,
	}, nil
}
