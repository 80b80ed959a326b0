package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mymoneyhq/moneyctl/internal/common"
	"github.com/mymoneyhq/moneyctl/internal/model"
	"golang.org/x/sync/singleflight"
)

// ProfileFetcher fetches the current user's profile from the remote API.
type ProfileFetcher interface {
	Profile(ctx context.Context) (*model.Profile, error)
}

// State is the session controller's lifecycle position.
type State int

const (
	// StateUnknown means no cached profile exists and no fetch has started.
	StateUnknown State = iota
	// StateFetching means a profile fetch is in flight.
	StateFetching
	// StateAuthenticated means a profile is cached and the session is live.
	StateAuthenticated
	// StateLoggedOut is terminal: credentials are cleared and the user must
	// authenticate again.
	StateLoggedOut
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateFetching:
		return "fetching"
	case StateAuthenticated:
		return "authenticated"
	case StateLoggedOut:
		return "logged out"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Controller drives the session lifecycle: it fetches the profile when none
// is cached, caches it on success, and tears the session down on a genuine
// fetch failure. Concurrent callers with no cached profile are collapsed
// into a single fetch.
type Controller struct {
	store   *Store
	fetcher ProfileFetcher
	group   singleflight.Group
	state   State
	mu      sync.Mutex
}

// NewController creates a controller over the given store and fetcher.
func NewController(store *Store, fetcher ProfileFetcher) *Controller {
	return &Controller{store: store, fetcher: fetcher}
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Ensure returns the current profile, fetching it if none is cached. A
// cached profile short-circuits without any network call, so repeated
// invocations are no-ops. A genuine fetch failure clears credentials and
// leaves the controller logged out: during session establishment every
// failure means "not logged in".
//
// The shared fetch is detached from any one caller's context: only that
// caller's commit and return are governed by its ctx. A canceled caller
// gets ctx.Err() back and leaves shared state untouched, while concurrent
// callers still receive the fetched profile.
func (c *Controller) Ensure(ctx context.Context) (*model.Profile, error) {
	if p, ok := c.store.Profile(); ok {
		c.setState(StateAuthenticated)
		return p, nil
	}

	c.setState(StateFetching)

	v, err, shared := c.group.Do("profile", func() (any, error) {
		p, err := c.fetcher.Profile(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		return p, nil
	})

	// A canceled caller is gone, not logged out: suppress both the commit
	// and the teardown, whatever the shared fetch resolved to.
	if cerr := ctx.Err(); cerr != nil {
		return nil, cerr
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		slog.Debug("profile fetch failed, clearing session", "error", err)
		if clearErr := c.store.Clear(); clearErr != nil {
			slog.Warn("failed to clear credentials", "error", clearErr)
		}
		c.setState(StateLoggedOut)
		return nil, fmt.Errorf("%w: %v", common.ErrLoggedOut, err)
	}

	if shared {
		slog.Debug("profile fetch shared with concurrent caller")
	}

	p := v.(*model.Profile)
	c.store.SetProfile(p)
	c.setState(StateAuthenticated)
	return p, nil
}

// ForceLogout tears the session down without a fetch, used when the HTTP
// layer observes an authorization failure.
func (c *Controller) ForceLogout() {
	if err := c.store.Clear(); err != nil {
		slog.Warn("failed to clear credentials", "error", err)
	}
	c.setState(StateLoggedOut)
}
