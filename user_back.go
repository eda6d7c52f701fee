//go:build !wasm

package customer

import "sync"

// StoreConfig configures the local auth backend.
type StoreConfig struct {
	SessionTTL   int    // seconds, default: 86400 (24h)
	JWTSecret    []byte // HS256 signing key, at least 32 bytes
	Issuer       string // default: "customer"
	ConfirmEmail bool   // new accounts stay pending until ConfirmUser
}

type Store struct {
	exec   Executor
	cache  *sessionCache
	config StoreConfig
	mu     sync.RWMutex
}

var store *Store

func Init(exec Executor, cfg StoreConfig) error {
	if len(cfg.JWTSecret) < 32 {
		return ErrWeakSecret
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 86400
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "customer"
	}
	if err := runMigrations(exec); err != nil {
		return err
	}
	store = &Store{
		exec:   exec,
		cache:  newSessionCache(),
		config: cfg,
	}
	return store.cache.warmUp(exec)
}
