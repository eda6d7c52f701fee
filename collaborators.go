package customer

import (
	"context"
	"sync"
	"time"

	"github.com/tinywasm/customer/internal/logger"
)

// TokenStore is one browser storage scope.
type TokenStore interface {
	SetItem(key, value string) error
}

type Navigator interface {
	Navigate(url string)
}

type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

type Notifier interface {
	Notify(message string, kind NotificationKind)
}

// ErrorHandler receives every failed provider call.
type ErrorHandler interface {
	HandleError(err error)
}

// Scheduler runs f once after d.
type Scheduler func(d time.Duration, f func())

// Collaborators are the page services a Controller drives. Provider,
// Session, Persistent and Navigator are required.
type Collaborators struct {
	Provider   Provider
	Session    TokenStore
	Persistent TokenStore
	Navigator  Navigator
	Notifier   Notifier
	Errors     ErrorHandler
	Surface    Surface
	Schedule   Scheduler
}

// MemoryStorage is a TokenStore kept in process memory.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (m *MemoryStorage) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

// GetItem returns the stored value and whether the key was ever written.
func (m *MemoryStorage) GetItem(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

type logNotifier struct{}

func (logNotifier) Notify(message string, kind NotificationKind) {
	if kind == NotifyError {
		logger.Warnf(context.Background(), "notification: %s", message)
		return
	}
	logger.Infof(context.Background(), "notification: %s", message)
}

type logErrorHandler struct{}

func (logErrorHandler) HandleError(err error) {
	logger.Errorf(context.Background(), "auth request failed: %v", err)
}

func afterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}
