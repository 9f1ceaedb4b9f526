package secrets

import (
	"context"
	"errors"
	"sync"

	"bilingual-chat-demo/backend/pkg/logger"
)

// ErrManagerNotInitialized is returned when GetSecret is called before Init
var ErrManagerNotInitialized = errors.New("secrets manager not initialized")

// Manager resolves secret values by key
type Manager interface {
	GetSecret(ctx context.Context, key string) (string, error)
	GetSecretWithDefault(ctx context.Context, key, defaultValue string) string
}

var (
	defaultManager Manager
	managerOnce    sync.Once
)

// Init sets up the package-level manager. Safe to call more than once; only
// the first call takes effect.
func Init(log *logger.Logger) error {
	var err error
	managerOnce.Do(func() {
		manager, initErr := NewVaultManager(log)
		if initErr != nil {
			err = initErr
			return
		}
		defaultManager = manager
	})
	return err
}

// GetSecret resolves key through the default manager
func GetSecret(ctx context.Context, key string) (string, error) {
	if defaultManager == nil {
		return "", ErrManagerNotInitialized
	}
	return defaultManager.GetSecret(ctx, key)
}

// GetSecretWithDefault resolves key, falling back to defaultValue on any failure
func GetSecretWithDefault(ctx context.Context, key, defaultValue string) string {
	if defaultManager == nil {
		return defaultValue
	}
	return defaultManager.GetSecretWithDefault(ctx, key, defaultValue)
}

// SetManager swaps the default manager, primarily for tests
func SetManager(manager Manager) {
	defaultManager = manager
}
