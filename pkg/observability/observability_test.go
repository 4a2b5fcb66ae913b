package observability_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/lifecycle"
	"github.com/aretw0/waypoint/pkg/navigator"
	"github.com/aretw0/waypoint/pkg/navkey"
	"github.com/aretw0/waypoint/pkg/observability"
)

func TestMetrics_RecordNavigation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	lm := lifecycle.NewManager(lifecycle.WithObserver(m))
	nav := navigator.NewStack(
		navigator.WithKeyGenerator(navkey.New()),
		navigator.WithLifecycleManager(lm),
		navigator.WithHooks(m.Hooks()),
	)

	home := nav.Navigate(domain.Route{Name: "home"})
	lm.Register(&lifecycle.Funcs{}, home.ScreenKey)
	nav.Navigate(domain.Route{Name: "detail"})
	nav.NavigateBack()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Navigations.WithLabelValues("push")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Navigations.WithLabelValues("pop")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StackSize))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Registrations))

	// Three NotifyEntered calls plus the registration; only home had receivers.
	assert.Equal(t, 4.0, testutil.ToFloat64(m.Dispatches.WithLabelValues("enter")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Receivers.WithLabelValues("enter")))
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
	assert.Panics(t, func() { observability.MustNewMetrics(reg) })
}

func TestMergeHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelDebug)

	var count int
	counting := navigator.Hooks{OnNavigate: func(*domain.NavigationEvent) { count++ }}

	hooks := observability.MergeHooks(counting, observability.LogHooks(logger), navigator.Hooks{})
	nav := navigator.NewStack(navigator.WithKeyGenerator(navkey.New()), navigator.WithHooks(hooks))
	nav.Navigate(domain.Route{Name: "home"})

	assert.Equal(t, 1, count)
	assert.Contains(t, buf.String(), "navigation")
	assert.Contains(t, buf.String(), "home-1")
	assert.Contains(t, buf.String(), "lifecycle")

	empty := observability.MergeHooks()
	assert.Nil(t, empty.OnNavigate)
	assert.Nil(t, empty.OnLifecycle)
}
