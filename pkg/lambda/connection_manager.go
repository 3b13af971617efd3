package lambda

import (
	"context"
	"sync"
	"time"

	"figma-insights-api/internal/config"
	"figma-insights-api/pkg/server"
)

// ConnectionManager keeps the service container alive across warm Lambda invocations
type ConnectionManager struct {
	container   *server.Container
	lastUsed    time.Time
	mu          sync.RWMutex
	initialized bool
	initErr     error
	initOnce    sync.Once
	loadConfig  func(ctx context.Context) (*config.Config, error)
}

var (
	globalConnectionManager *ConnectionManager
	connectionManagerOnce   sync.Once
)

// GetConnectionManager returns the global connection manager instance
func GetConnectionManager() *ConnectionManager {
	connectionManagerOnce.Do(func() {
		globalConnectionManager = NewConnectionManager(config.GetOptimizedConfig)
	})
	return globalConnectionManager
}

// NewConnectionManager creates a connection manager that loads configuration with loadConfig
func NewConnectionManager(loadConfig func(ctx context.Context) (*config.Config, error)) *ConnectionManager {
	return &ConnectionManager{loadConfig: loadConfig}
}

// GetContainer returns the service container, initializing it on first use.
// A failed initialization is remembered for the lifetime of the execution environment.
func (cm *ConnectionManager) GetContainer(ctx context.Context) (*server.Container, error) {
	cm.initOnce.Do(func() {
		cfg, err := cm.loadConfig(ctx)
		if err != nil {
			cm.initErr = err
			return
		}

		container, err := server.NewContainer(ctx, cfg)
		if err != nil {
			cm.initErr = err
			return
		}

		cm.mu.Lock()
		cm.container = container
		cm.initialized = true
		cm.mu.Unlock()
	})

	if cm.initErr != nil {
		return nil, cm.initErr
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.lastUsed = time.Now()
	return cm.container, nil
}

// IsHealthy reports whether the container is initialized and was used recently
func (cm *ConnectionManager) IsHealthy() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if !cm.initialized || cm.container == nil {
		return false
	}

	return time.Since(cm.lastUsed) < 5*time.Minute
}

// Cleanup releases the container
func (cm *ConnectionManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		if err := cm.container.Close(); err != nil {
			return err
		}
		cm.container = nil
	}

	cm.initialized = false
	return nil
}
