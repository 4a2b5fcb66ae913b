package lifecycle_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// counter records callback counts; safe for concurrent dispatch.
type counter struct {
	enter, exit, destroy atomic.Int32
}

func (c *counter) OnEnter()   { c.enter.Add(1) }
func (c *counter) OnExit()    { c.exit.Add(1) }
func (c *counter) OnDestroy() { c.destroy.Add(1) }

// MockLifecycle is a testify mock for ordering assertions.
type MockLifecycle struct {
	mock.Mock
}

func (m *MockLifecycle) OnEnter()   { m.Called() }
func (m *MockLifecycle) OnExit()    { m.Called() }
func (m *MockLifecycle) OnDestroy() { m.Called() }

func TestManager_FullCycle_SameLifecycle(t *testing.T) {
	m := lifecycle.NewManager()
	c := &counter{}

	m.Register(c, "detail-1")
	m.NotifyExited("detail-1")
	m.Register(c, "detail-1")
	m.NotifyDestroyed("detail-1")

	assert.Equal(t, int32(2), c.enter.Load())
	assert.Equal(t, int32(1), c.exit.Load())
	assert.Equal(t, int32(1), c.destroy.Load())
	assert.Equal(t, 0, m.Registrations("detail-1"))
	assert.Equal(t, 0, m.Len())
}

func TestManager_FullCycle_TwoLifecycles(t *testing.T) {
	m := lifecycle.NewManager()
	a, b := &counter{}, &counter{}

	m.Register(a, "detail-1")
	m.NotifyExited("detail-1")
	m.Register(b, "detail-1")
	m.NotifyDestroyed("detail-1")

	assert.Equal(t, int32(2), a.enter.Load()+b.enter.Load())
	assert.Equal(t, int32(1), a.exit.Load()+b.exit.Load())
	assert.Equal(t, int32(1), a.destroy.Load())
	assert.Equal(t, int32(1), b.destroy.Load())
	assert.Equal(t, 0, m.Registrations("detail-1"))
}

func TestManager_Ordering(t *testing.T) {
	m := lifecycle.NewManager()
	l := &MockLifecycle{}
	l.On("OnEnter").Once()
	l.On("OnExit").Once()
	l.On("OnDestroy").Once()

	m.Register(l, "k-1")
	m.NotifyExited("k-1")
	m.NotifyDestroyed("k-1")
	m.NotifyDestroyed("k-1")

	l.AssertExpectations(t)
	l.AssertNumberOfCalls(t, "OnDestroy", 1)
}

func TestManager_UnregisterIdempotent(t *testing.T) {
	m := lifecycle.NewManager()
	c := &counter{}

	m.Unregister(c)
	m.Register(c, "k-1")
	m.Unregister(c)
	m.Unregister(c)

	m.NotifyExited("k-1")
	m.NotifyDestroyed("k-1")
	assert.Equal(t, int32(0), c.exit.Load())
	assert.Equal(t, int32(0), c.destroy.Load())
}

func TestManager_RegisterMovesLifecycle(t *testing.T) {
	m := lifecycle.NewManager()
	c := &counter{}

	m.Register(c, "a-1")
	m.Register(c, "b-2")

	key, ok := m.KeyOf(c)
	assert.True(t, ok)
	assert.Equal(t, "b-2", key)
	assert.Equal(t, 0, m.Registrations("a-1"))
	assert.Equal(t, 1, m.Registrations("b-2"))
}

func TestManager_ConcurrentDestroy(t *testing.T) {
	for round := 0; round < 50; round++ {
		m := lifecycle.NewManager()
		ls := []*counter{{}, {}, {}}
		for _, l := range ls {
			m.Register(l, "shared-1")
		}

		var wg sync.WaitGroup
		start := make(chan struct{})
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				m.NotifyDestroyed("shared-1")
			}()
		}
		close(start)
		wg.Wait()

		for _, l := range ls {
			assert.Equal(t, int32(1), l.destroy.Load())
		}
		assert.Equal(t, 0, m.Registrations("shared-1"))
	}
}

func TestManager_CallbackMayReenter(t *testing.T) {
	m := lifecycle.NewManager()
	other := &counter{}

	var self *lifecycle.Funcs
	self = &lifecycle.Funcs{
		Exit: func() {
			// Mutating the registry from a callback must not deadlock.
			m.Unregister(self)
			m.Register(other, "other-2")
		},
	}

	m.Register(self, "k-1")
	m.NotifyExited("k-1")

	assert.Equal(t, 0, m.Registrations("k-1"))
	assert.Equal(t, 1, m.Registrations("other-2"))
	assert.Equal(t, int32(1), other.enter.Load())
}

func TestManager_ConcurrentRegisterUnregister(t *testing.T) {
	m := lifecycle.NewManager()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c := &counter{}
				m.Register(c, "busy-1")
				m.NotifyExited("busy-1")
				m.UnregisterSync(c)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, m.Len())
}

func TestManager_IgnoresEmptyKey(t *testing.T) {
	m := lifecycle.NewManager()
	c := &counter{}

	m.Register(c, "")
	assert.Equal(t, int32(0), c.enter.Load())
	assert.Equal(t, 0, m.Len())
}

type recordingObserver struct {
	mu     sync.Mutex
	events []domain.EventType
	total  int
}

func (r *recordingObserver) LifecycleDispatched(e domain.EventType, _ string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n > 0 {
		r.events = append(r.events, e)
	}
}

func (r *recordingObserver) RegistrationsChanged(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = total
}

func TestManager_Observer(t *testing.T) {
	obs := &recordingObserver{}
	m := lifecycle.NewManager(lifecycle.WithObserver(obs))
	c := &counter{}

	m.RegisterSync(c, "k-1")
	assert.Equal(t, 1, obs.total)
	m.NotifyEntered("k-1")
	m.NotifyExited("k-1")
	m.NotifyDestroyed("k-1")

	assert.Equal(t, []domain.EventType{domain.EventEnter, domain.EventEnter, domain.EventExit, domain.EventDestroy}, obs.events)
	assert.Equal(t, 0, obs.total)
}

// tagged is a value-type lifecycle holding an unhashable field.
type tagged struct {
	tags []string
}

func (tagged) OnEnter()   {}
func (tagged) OnExit()    {}
func (tagged) OnDestroy() {}

func TestManager_IgnoresNonPointerLifecycles(t *testing.T) {
	m := lifecycle.NewManager()
	l := tagged{tags: []string{"a"}}

	assert.NotPanics(t, func() {
		m.Register(l, "k-1")
		m.RegisterSync(l, "k-1")
		m.Unregister(l)
		_, ok := m.KeyOf(l)
		assert.False(t, ok)
	})
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 0, m.Registrations("k-1"))

	var typedNil *counter
	assert.NotPanics(t, func() { m.Register(typedNil, "k-1") })
	assert.Equal(t, 0, m.Len())
}
