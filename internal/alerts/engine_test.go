package alerts

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/models"
	"tradejournal/internal/notify"
	"tradejournal/internal/store"
)

// memStore is an in-memory DataStore covering the alert methods the engine
// exercises. The embedded interface panics on anything else.
type memStore struct {
	store.DataStore

	mu          sync.Mutex
	alerts      map[string]models.Alert
	failTrigger error
	failList    error
}

func newMemStore() *memStore {
	return &memStore{alerts: make(map[string]models.Alert)}
}

func (m *memStore) SaveAlert(_ context.Context, alert *models.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts[alert.ID] = *alert
	return nil
}

func (m *memStore) GetAlert(_ context.Context, id string) (*models.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.alerts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (m *memStore) DeleteAlert(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.alerts, id)
	return nil
}

func (m *memStore) ListAlerts(_ context.Context, status *models.AlertStatus) ([]models.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList != nil {
		return nil, m.failList
	}
	var out []models.Alert
	for _, a := range m.alerts {
		if status == nil || a.Status == *status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) TriggerAlert(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTrigger != nil {
		return m.failTrigger
	}
	a, ok := m.alerts[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if a.Status != models.AlertActive {
		return apperrors.ErrAlertTerminal
	}
	a.Status = models.AlertTriggered
	a.TriggeredAt = &at
	m.alerts[id] = a
	return nil
}

func (m *memStore) alertStatus(t *testing.T, id string) models.AlertStatus {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.alerts[id]
	require.True(t, ok, "alert %s not in store", id)
	return a.Status
}

type fakeFeed struct {
	mu     sync.Mutex
	prices map[string]float64
	err    error
	calls  int
}

func (f *fakeFeed) set(symbol string, price float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.prices == nil {
		f.prices = make(map[string]float64)
	}
	f.prices[symbol] = price
}

func (f *fakeFeed) CurrentPrice(_ context.Context, symbol string) (float64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return 0, false, f.err
	}
	p, ok := f.prices[symbol]
	return p, ok, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, msg notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func newTestEngine(st *memStore, feed *fakeFeed, notifier *fakeNotifier, settings SettingsProvider) *Engine {
	return New(Config{
		Store:    st,
		Prices:   feed,
		Notifier: notifier,
		Settings: settings,
		Logger:   zerolog.Nop(),
	})
}

func TestCreatePriceAlert(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	e := newTestEngine(st, &fakeFeed{}, &fakeNotifier{}, nil)

	t.Run("valid alert is persisted active", func(t *testing.T) {
		a, err := e.CreatePriceAlert(ctx, "EURUSD", models.CrossesAbove, 1.2100)
		require.NoError(t, err)
		assert.NotEmpty(t, a.ID)
		assert.Equal(t, models.AlertActive, st.alertStatus(t, a.ID))
	})

	t.Run("empty symbol is rejected", func(t *testing.T) {
		_, err := e.CreatePriceAlert(ctx, "", models.CrossesAbove, 1.2100)
		var ve *apperrors.ValidationError
		assert.True(t, errors.As(err, &ve))
	})

	t.Run("non-positive target is rejected", func(t *testing.T) {
		_, err := e.CreatePriceAlert(ctx, "EURUSD", models.CrossesAbove, 0)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidTarget))
	})

	t.Run("unknown condition is rejected", func(t *testing.T) {
		_, err := e.CreatePriceAlert(ctx, "EURUSD", models.PriceCondition("touches"), 1.2100)
		assert.Error(t, err)
	})
}

func TestCreateNewsAlert(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	e := newTestEngine(st, &fakeFeed{}, &fakeNotifier{}, nil)

	event := models.CalendarEvent{
		ID:            "nfp-2025-01",
		Title:         "Non-Farm Payrolls",
		ScheduledTime: time.Now().Add(time.Hour),
	}

	a, err := e.CreateNewsAlert(ctx, event, 5)
	require.NoError(t, err)
	assert.Equal(t, models.AlertKindNews, a.Kind)
	assert.Equal(t, 5, a.TriggerBeforeMinutes)

	_, err = e.CreateNewsAlert(ctx, models.CalendarEvent{}, 5)
	assert.Error(t, err)

	_, err = e.CreateNewsAlert(ctx, event, 0)
	assert.Error(t, err)
}

func TestTickPriceAlertFiresOnce(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	feed := &fakeFeed{}
	notifier := &fakeNotifier{}
	e := newTestEngine(st, feed, notifier, nil)

	a, err := e.CreatePriceAlert(ctx, "EURUSD", models.CrossesAbove, 1.2100)
	require.NoError(t, err)

	now := time.Now()

	// Below target: nothing happens.
	feed.set("EURUSD", 1.2050)
	require.NoError(t, e.Tick(ctx, now))
	assert.Equal(t, models.AlertActive, st.alertStatus(t, a.ID))
	assert.Equal(t, 0, notifier.count())

	// At target: fires.
	feed.set("EURUSD", 1.2100)
	require.NoError(t, e.Tick(ctx, now.Add(time.Second)))
	assert.Equal(t, models.AlertTriggered, st.alertStatus(t, a.ID))
	assert.Equal(t, 1, notifier.count())

	// Price oscillates across the target again: triggered is terminal.
	feed.set("EURUSD", 1.2050)
	require.NoError(t, e.Tick(ctx, now.Add(2*time.Second)))
	feed.set("EURUSD", 1.2150)
	require.NoError(t, e.Tick(ctx, now.Add(3*time.Second)))
	assert.Equal(t, 1, notifier.count())
}

func TestTickCrossesBelow(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	feed := &fakeFeed{}
	notifier := &fakeNotifier{}
	e := newTestEngine(st, feed, notifier, nil)

	a, err := e.CreatePriceAlert(ctx, "EURUSD", models.CrossesBelow, 1.1900)
	require.NoError(t, err)

	feed.set("EURUSD", 1.1950)
	require.NoError(t, e.Tick(ctx, time.Now()))
	assert.Equal(t, models.AlertActive, st.alertStatus(t, a.ID))

	feed.set("EURUSD", 1.1890)
	require.NoError(t, e.Tick(ctx, time.Now()))
	assert.Equal(t, models.AlertTriggered, st.alertStatus(t, a.ID))
}

func TestTickFeedUnavailableDefers(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	feed := &fakeFeed{} // no price for any symbol
	notifier := &fakeNotifier{}
	e := newTestEngine(st, feed, notifier, nil)

	a, err := e.CreatePriceAlert(ctx, "EURUSD", models.CrossesAbove, 1.2100)
	require.NoError(t, err)

	require.NoError(t, e.Tick(ctx, time.Now()))
	assert.Equal(t, models.AlertActive, st.alertStatus(t, a.ID))
	assert.Equal(t, 0, notifier.count())

	feed.err = errors.New("feed down")
	require.NoError(t, e.Tick(ctx, time.Now()))
	assert.Equal(t, models.AlertActive, st.alertStatus(t, a.ID))

	// Feed recovers: the alert fires on the next tick.
	feed.err = nil
	feed.set("EURUSD", 1.2200)
	require.NoError(t, e.Tick(ctx, time.Now()))
	assert.Equal(t, models.AlertTriggered, st.alertStatus(t, a.ID))
}

func TestTickReadsFeedOncePerSymbol(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	feed := &fakeFeed{}
	feed.set("EURUSD", 1.0)
	e := newTestEngine(st, feed, &fakeNotifier{}, nil)

	for i := 0; i < 3; i++ {
		_, err := e.CreatePriceAlert(ctx, "EURUSD", models.CrossesAbove, 5.0)
		require.NoError(t, err)
	}

	require.NoError(t, e.Tick(ctx, time.Now()))
	assert.Equal(t, 1, feed.calls)
}

func TestTickNewsAlertWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	makeAlert := func(t *testing.T, st *memStore, e *Engine, eventIn time.Duration, before int) models.Alert {
		t.Helper()
		a, err := e.CreateNewsAlert(ctx, models.CalendarEvent{
			ID:            "evt",
			Title:         "CPI release",
			ScheduledTime: now.Add(eventIn),
		}, before)
		require.NoError(t, err)
		return a
	}

	t.Run("inside the window fires", func(t *testing.T) {
		st := newMemStore()
		notifier := &fakeNotifier{}
		e := newTestEngine(st, &fakeFeed{}, notifier, nil)
		a := makeAlert(t, st, e, 4*time.Minute, 5)

		require.NoError(t, e.Tick(ctx, now))
		assert.Equal(t, models.AlertTriggered, st.alertStatus(t, a.ID))
		assert.Equal(t, 1, notifier.count())
	})

	t.Run("before the window stays active", func(t *testing.T) {
		st := newMemStore()
		e := newTestEngine(st, &fakeFeed{}, &fakeNotifier{}, nil)
		a := makeAlert(t, st, e, 10*time.Minute, 5)

		require.NoError(t, e.Tick(ctx, now))
		assert.Equal(t, models.AlertActive, st.alertStatus(t, a.ID))

		// Time advances into the window.
		require.NoError(t, e.Tick(ctx, now.Add(6*time.Minute)))
		assert.Equal(t, models.AlertTriggered, st.alertStatus(t, a.ID))
	})

	t.Run("a missed window never fires", func(t *testing.T) {
		st := newMemStore()
		notifier := &fakeNotifier{}
		e := newTestEngine(st, &fakeFeed{}, notifier, nil)
		a := makeAlert(t, st, e, -time.Minute, 5)

		require.NoError(t, e.Tick(ctx, now))
		require.NoError(t, e.Tick(ctx, now.Add(time.Hour)))
		assert.Equal(t, models.AlertActive, st.alertStatus(t, a.ID))
		assert.Equal(t, 0, notifier.count())
	})
}

func TestTickGatingSuppressesEmissionNotTransition(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name     string
		settings StaticSettings
	}{
		{"master switch off", StaticSettings{NotificationsEnabled: false, PriceAlertsEnabled: true}},
		{"price alerts off", StaticSettings{NotificationsEnabled: true, PriceAlertsEnabled: false}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := newMemStore()
			feed := &fakeFeed{}
			feed.set("EURUSD", 1.5)
			notifier := &fakeNotifier{}
			e := newTestEngine(st, feed, notifier, tc.settings)

			a, err := e.CreatePriceAlert(ctx, "EURUSD", models.CrossesAbove, 1.2)
			require.NoError(t, err)

			require.NoError(t, e.Tick(ctx, time.Now()))
			assert.Equal(t, models.AlertTriggered, st.alertStatus(t, a.ID))
			assert.Equal(t, 0, notifier.count())
		})
	}
}

func TestTickStoreFailureLeavesAlertActive(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	feed := &fakeFeed{}
	feed.set("EURUSD", 1.5)
	notifier := &fakeNotifier{}
	e := newTestEngine(st, feed, notifier, nil)

	a, err := e.CreatePriceAlert(ctx, "EURUSD", models.CrossesAbove, 1.2)
	require.NoError(t, err)

	st.failTrigger = errors.New("disk full")
	require.NoError(t, e.Tick(ctx, time.Now()))
	assert.Equal(t, models.AlertActive, st.alertStatus(t, a.ID))
	assert.Equal(t, 0, notifier.count())

	// The write succeeds on retry and the alert fires exactly once.
	st.failTrigger = nil
	require.NoError(t, e.Tick(ctx, time.Now()))
	assert.Equal(t, models.AlertTriggered, st.alertStatus(t, a.ID))
	assert.Equal(t, 1, notifier.count())
}

func TestTickNotifierFailureDoesNotRevert(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	feed := &fakeFeed{}
	feed.set("EURUSD", 1.5)
	notifier := &fakeNotifier{err: errors.New("terminal gone")}
	e := newTestEngine(st, feed, notifier, nil)

	a, err := e.CreatePriceAlert(ctx, "EURUSD", models.CrossesAbove, 1.2)
	require.NoError(t, err)

	require.NoError(t, e.Tick(ctx, time.Now()))
	assert.Equal(t, models.AlertTriggered, st.alertStatus(t, a.ID))
}

func TestTickListFailure(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	st.failList = errors.New("db locked")
	e := newTestEngine(st, &fakeFeed{}, &fakeNotifier{}, nil)

	assert.Error(t, e.Tick(ctx, time.Now()))
}

func TestRunStopsOnCancel(t *testing.T) {
	st := newMemStore()
	e := New(Config{
		Store:    st,
		Prices:   &fakeFeed{},
		Notifier: &fakeNotifier{},
		Logger:   zerolog.Nop(),
		Interval: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("engine did not stop after cancel")
	}
}
