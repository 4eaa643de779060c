package keepalive

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// CleanupManager releases session resources in reverse registration order,
// bounded by a timeout.
type CleanupManager struct {
	mu          sync.Mutex
	resources   []CleanupResource
	timeout     time.Duration
	cleanupOnce sync.Once
	errs        []error
}

// CleanupResource is something a session must release when it ends.
type CleanupResource interface {
	Cleanup() error
	Name() string
}

type cleanupFunc struct {
	name string
	fn   func() error
}

func (c *cleanupFunc) Cleanup() error { return c.fn() }
func (c *cleanupFunc) Name() string   { return c.name }

// NewCleanupManager creates a manager; non-positive timeouts use five seconds.
func NewCleanupManager(timeout time.Duration) *CleanupManager {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &CleanupManager{timeout: timeout}
}

// Register adds a resource. Resources registered later are released first.
func (cm *CleanupManager) Register(resource CleanupResource) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.resources = append(cm.resources, resource)
}

// RegisterFunc registers fn under name. A nil fn is ignored.
func (cm *CleanupManager) RegisterFunc(name string, fn func() error) {
	if fn == nil {
		return
	}
	cm.Register(&cleanupFunc{name: name, fn: fn})
}

// Execute releases every resource once. Later calls return the errors of
// the first run.
func (cm *CleanupManager) Execute() []error {
	cm.cleanupOnce.Do(func() {
		cm.errs = cm.executeWithTimeout()
	})
	return cm.errs
}

func (cm *CleanupManager) executeWithTimeout() []error {
	cm.mu.Lock()
	resources := make([]CleanupResource, 0, len(cm.resources))
	for i := len(cm.resources) - 1; i >= 0; i-- {
		resources = append(resources, cm.resources[i])
	}
	cm.mu.Unlock()

	if len(resources) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cm.timeout)
	defer cancel()

	var (
		mu   sync.Mutex
		errs []error
	)
	record := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, resource := range resources {
			cm.release(resource, record)
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Warnf("cleanup: timeout after %v, some resources may not have been released", cm.timeout)
		record(errors.New("cleanup timeout exceeded"))
	}

	mu.Lock()
	defer mu.Unlock()
	return append([]error(nil), errs...)
}

func (cm *CleanupManager) release(resource CleanupResource, record func(error)) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("cleanup: panic releasing %s: %v", resource.Name(), r)
			record(errors.Errorf("panic releasing %s: %v", resource.Name(), r))
		}
	}()

	if err := resource.Cleanup(); err != nil {
		logger.Warnf("cleanup: error releasing %s: %v", resource.Name(), err)
		record(errors.Wrapf(err, "release %s", resource.Name()))
		return
	}
	logger.Debugf("cleanup: released %s", resource.Name())
}
