package app

import (
	"go.uber.org/zap"

	"sigil/internal/domain"
	"sigil/internal/keystore"
	"sigil/internal/relay"
	accountsvc "sigil/internal/services/account"
	"sigil/internal/store"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Config   Config
	Accounts *accountsvc.Service
	Relay    domain.RelayClient
	Log      *zap.Logger
}

// NewWire constructs the dependency graph from cfg. The relay client is
// built lazily by commands that need it, so a bad relay URL only fails
// those commands.
func NewWire(cfg Config, log *zap.Logger) (*Wire, error) {
	if log == nil {
		log = zap.NewNop()
	}

	// File-based stores
	accountsStore := store.NewAccountsFileStore(cfg.Home)
	keystoreStore := store.NewKeystoreFileStore(cfg.Home)

	svc, err := accountsvc.New(accountsStore, keystoreStore,
		accountsvc.WithLogger(log.Named("accounts")),
		accountsvc.WithSealer(keystore.New(cfg.KDF)),
	)
	if err != nil {
		return nil, err
	}

	return &Wire{
		Config:   cfg,
		Accounts: svc,
		Log:      log,
	}, nil
}

// RelayClient returns the relay client, creating it on first use.
func (w *Wire) RelayClient() (domain.RelayClient, error) {
	if w.Relay != nil {
		return w.Relay, nil
	}
	c, err := relay.NewClient(w.Config.RelayURL, relay.WithLogger(w.Log.Named("relay")))
	if err != nil {
		return nil, err
	}
	w.Relay = c
	return c, nil
}
