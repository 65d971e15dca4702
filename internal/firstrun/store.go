// Package firstrun tracks whether the first-run welcome overlay is shown.
//
// The decision is persisted in the local settings store under StorageKey.
// Only an explicit dismissal is ever written; absence of the key means
// "show". A background probe of the wallet daemon can force the overlay
// back on when no accounts or vaults exist, but never hides it.
package firstrun

import (
	"context"
	"log"
	"sync"

	"parityshell/internal/rpc"
	"parityshell/internal/settings"
)

const (
	// StorageKey is the current settings key for the dismissal marker.
	StorageKey = "_parity::showFirstRun"

	// LegacyStorageKey was used before settings keys were namespaced. It is
	// migrated to StorageKey once and then removed.
	LegacyStorageKey = "showFirstRun"
)

// Store owns the overlay visibility flag for one application session.
type Store struct {
	mu      sync.Mutex
	visible bool

	st     settings.Store
	api    rpc.AccountClient
	logger *log.Logger
	broker *broker
}

// New migrates the legacy settings key, then derives the initial visibility:
// shown if and only if StorageKey has never been written. It does not talk
// to the daemon; call Start for the account-presence probe.
func New(st settings.Store, api rpc.AccountClient, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Default()
	}

	s := &Store{
		st:     st,
		api:    api,
		logger: logger,
		broker: newBroker(),
	}

	if err := s.migrateLegacyKey(); err != nil {
		return nil, err
	}

	// Presence alone decides: a dismissal was recorded at some point, so the
	// overlay stays hidden regardless of the stored value.
	_, present, err := st.Get(StorageKey)
	if err != nil {
		return nil, err
	}
	s.visible = !present

	return s, nil
}

// migrateLegacyKey copies the pre-namespace key to StorageKey and removes
// it. It only runs while StorageKey is absent, so it is idempotent and
// never clobbers an existing value.
func (s *Store) migrateLegacyKey() error {
	_, present, err := s.st.Get(StorageKey)
	if err != nil {
		return err
	}
	if present {
		return nil
	}

	value, legacyPresent, err := s.st.Get(LegacyStorageKey)
	if err != nil {
		return err
	}
	if !legacyPresent {
		return nil
	}

	if err := s.st.Set(StorageKey, value); err != nil {
		return err
	}
	return s.st.Remove(LegacyStorageKey)
}

// Visible reports the current flag value.
func (s *Store) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// Subscribe registers for visibility updates. The channel closes when ctx
// is done or the store closes.
func (s *Store) Subscribe(ctx context.Context) <-chan bool {
	return s.broker.subscribe(ctx)
}

// Toggle sets the flag and notifies subscribers. A dismissal is persisted;
// showing is the implicit default and writes nothing.
func (s *Store) Toggle(visible bool) error {
	s.mu.Lock()
	s.visible = visible
	s.mu.Unlock()

	s.broker.publish(visible)

	if !visible {
		return s.st.Set(StorageKey, "false")
	}
	return nil
}

// Close dismisses the overlay, persists the dismissal and shuts down
// subscriber channels. An in-flight probe is not cancelled; if it settles
// later it publishes into a closed broker, which is a no-op.
func (s *Store) Close() error {
	err := s.Toggle(false)
	s.broker.shutdown()
	return err
}

// Start fires the account-presence probe in the background. The returned
// channel closes once the probe settles, so callers may await it or drop it.
func (s *Store) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.checkAccountPresence(ctx)
	}()
	return done
}

// checkAccountPresence queries vaults and accounts concurrently and forces
// the overlay on when neither exists. It never forces the overlay off, and
// on any daemon error it leaves the flag untouched.
func (s *Store) checkAccountPresence(ctx context.Context) {
	var (
		wg     sync.WaitGroup
		vaults []string
		infos  map[string]rpc.AccountInfo
		vErr   error
		aErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		vaults, vErr = s.api.ListVaults(ctx)
	}()
	go func() {
		defer wg.Done()
		infos, aErr = s.api.AllAccountsInfo(ctx)
	}()
	wg.Wait()

	if vErr != nil {
		s.logger.Printf("firstrun: account presence check failed: %v", vErr)
		return
	}
	if aErr != nil {
		s.logger.Printf("firstrun: account presence check failed: %v", aErr)
		return
	}

	accounts := 0
	for _, info := range infos {
		if info.UUID != "" {
			accounts++
		}
	}
	hasAccounts := accounts > 0 || len(vaults) > 0

	if err := s.Toggle(s.Visible() || !hasAccounts); err != nil {
		s.logger.Printf("firstrun: persist visibility: %v", err)
	}
}
