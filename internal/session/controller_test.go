package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mymoneyhq/moneyctl/internal/common"
	"github.com/mymoneyhq/moneyctl/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	profile *model.Profile
	err     error
	delay   time.Duration
	calls   atomic.Int32
}

func (f *fakeFetcher) Profile(ctx context.Context) (*model.Profile, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

func newControllerForTest(t *testing.T, fetcher ProfileFetcher) (*Controller, *Store) {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, err)
	require.NoError(t, store.SetToken("tok"))
	return NewController(store, fetcher), store
}

func TestEnsureCachesProfile(t *testing.T) {
	fetcher := &fakeFetcher{profile: &model.Profile{FullName: "Ada", Email: "ada@example.com"}}
	ctrl, store := newControllerForTest(t, fetcher)

	p, err := ctrl.Ensure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.FullName)
	assert.Equal(t, StateAuthenticated, ctrl.State())

	cached, ok := store.Profile()
	require.True(t, ok)
	assert.Equal(t, "Ada", cached.FullName)

	// Second call is a no-op: no further fetch.
	_, err = ctrl.Ensure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestEnsureConcurrentCallersShareOneFetch(t *testing.T) {
	fetcher := &fakeFetcher{
		profile: &model.Profile{FullName: "Ada"},
		delay:   50 * time.Millisecond,
	}
	ctrl, _ := newControllerForTest(t, fetcher)

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ctrl.Ensure(context.Background())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), fetcher.calls.Load(),
		"concurrent callers must collapse into a single fetch")
	assert.Equal(t, StateAuthenticated, ctrl.State())
}

func TestEnsureFailureClearsCredentials(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("boom")}
	ctrl, store := newControllerForTest(t, fetcher)

	_, err := ctrl.Ensure(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrLoggedOut)
	assert.Equal(t, StateLoggedOut, ctrl.State())

	_, ok := store.Token()
	assert.False(t, ok, "failed fetch must clear the token")
}

func TestEnsureCanceledCallerLeavesStateAlone(t *testing.T) {
	fetcher := &fakeFetcher{
		profile: &model.Profile{FullName: "Ada"},
		delay:   100 * time.Millisecond,
	}
	ctrl, store := newControllerForTest(t, fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := ctrl.Ensure(ctx)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	err := <-done
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	_, ok := store.Profile()
	assert.False(t, ok, "canceled fetch must not commit a profile")
	token, ok := store.Token()
	assert.True(t, ok, "cancellation is not a logout")
	assert.Equal(t, "tok", token)
}

func TestEnsureSharerSurvivesOtherCallersCancellation(t *testing.T) {
	fetcher := &fakeFetcher{
		profile: &model.Profile{FullName: "Ada"},
		delay:   150 * time.Millisecond,
	}
	ctrl, store := newControllerForTest(t, fetcher)

	ctxA, cancelA := context.WithCancel(context.Background())
	aDone := make(chan error, 1)
	go func() {
		_, err := ctrl.Ensure(ctxA)
		aDone <- err
	}()

	time.Sleep(20 * time.Millisecond) // first fetch is in flight

	var bProfile *model.Profile
	bDone := make(chan error, 1)
	go func() {
		p, err := ctrl.Ensure(context.Background())
		bProfile = p
		bDone <- err
	}()

	time.Sleep(20 * time.Millisecond) // second caller has joined the flight
	cancelA()

	require.ErrorIs(t, <-aDone, context.Canceled)
	require.NoError(t, <-bDone)
	require.NotNil(t, bProfile)
	assert.Equal(t, "Ada", bProfile.FullName)

	token, ok := store.Token()
	require.True(t, ok, "one caller's cancellation must not log the other out")
	assert.Equal(t, "tok", token)
	assert.Equal(t, StateAuthenticated, ctrl.State())
	assert.Equal(t, int32(1), fetcher.calls.Load())

	cached, ok := store.Profile()
	require.True(t, ok)
	assert.Equal(t, "Ada", cached.FullName)
}

// hookFetcher mimics the HTTP layer's 401 handling: the unauthorized hook
// runs before the call returns its auth error.
type hookFetcher struct {
	hook func()
}

func (f *hookFetcher) Profile(_ context.Context) (*model.Profile, error) {
	f.hook()
	return nil, common.ErrAuth
}

func TestEnsureUnauthorizedHookForcesLogout(t *testing.T) {
	fetcher := &hookFetcher{}
	ctrl, store := newControllerForTest(t, fetcher)
	fetcher.hook = ctrl.ForceLogout

	_, err := ctrl.Ensure(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrLoggedOut)
	assert.Equal(t, StateLoggedOut, ctrl.State())

	_, ok := store.Token()
	assert.False(t, ok)
}

func TestForceLogout(t *testing.T) {
	fetcher := &fakeFetcher{profile: &model.Profile{FullName: "Ada"}}
	ctrl, store := newControllerForTest(t, fetcher)

	_, err := ctrl.Ensure(context.Background())
	require.NoError(t, err)

	ctrl.ForceLogout()
	assert.Equal(t, StateLoggedOut, ctrl.State())
	_, ok := store.Token()
	assert.False(t, ok)
	_, ok = store.Profile()
	assert.False(t, ok)
}
