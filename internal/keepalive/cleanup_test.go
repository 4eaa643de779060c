package keepalive

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupReverseOrder(t *testing.T) {
	cm := NewCleanupManager(time.Second)

	var mu sync.Mutex
	var order []string
	for _, name := range []string{"backend", "hook", "ui"} {
		name := name
		cm.RegisterFunc(name, func() error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		})
	}

	assert.Empty(t, cm.Execute())
	assert.Equal(t, []string{"ui", "hook", "backend"}, order)
}

func TestCleanupRunsOnce(t *testing.T) {
	cm := NewCleanupManager(time.Second)
	calls := 0
	cm.RegisterFunc("counter", func() error {
		calls++
		return errors.New("failed")
	})

	first := cm.Execute()
	second := cm.Execute()

	assert.Equal(t, 1, calls)
	require.Len(t, first, 1)
	assert.Equal(t, first, second)
	assert.Contains(t, first[0].Error(), "release counter")
}

func TestCleanupRecoversPanics(t *testing.T) {
	cm := NewCleanupManager(time.Second)
	released := false
	cm.RegisterFunc("after", func() error {
		released = true
		return nil
	})
	cm.RegisterFunc("explodes", func() error {
		panic("boom")
	})

	errs := cm.Execute()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "panic releasing explodes")
	assert.True(t, released, "later resources still released after a panic")
}

func TestCleanupTimeout(t *testing.T) {
	cm := NewCleanupManager(20 * time.Millisecond)
	block := make(chan struct{})
	defer close(block)
	cm.RegisterFunc("stuck", func() error {
		<-block
		return nil
	})

	errs := cm.Execute()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "timeout")
}

func TestCleanupIgnoresNilFunc(t *testing.T) {
	cm := NewCleanupManager(0)
	cm.RegisterFunc("nil", nil)
	assert.Empty(t, cm.Execute())
}
