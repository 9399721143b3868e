// Package view classifies which top-level presentation the popup renders.
// The classification is one-shot: computed once per view load, never
// re-evaluated reactively. A reload (token update, explicit refresh,
// successful login) is the only way out of a state.
package view

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/findmylink/companion/internal/api"
	"github.com/findmylink/companion/internal/credstore"
	"github.com/findmylink/companion/internal/domain"
	"github.com/findmylink/companion/internal/logger"
)

type State string

const (
	StateLoggedOut      State = "logged_out"
	StateNoSubscription State = "logged_in_no_subscription"
	StateSubscribed     State = "logged_in_with_subscription"
)

// Selection is the outcome of one classification pass.
type Selection struct {
	State  State
	UserID int64

	// OnlyBookmarks restricts the unified search to the bookmark source.
	// True for every state except an active subscription.
	OnlyBookmarks bool

	// Subscription is set in both logged-in states when the profile
	// carried one, even if inactive.
	Subscription *domain.Subscription

	// Status is the indicator variant for the subscribed view.
	Status domain.StatusVariant
}

// Selector computes the selection from stored credentials plus one profile
// fetch.
type Selector struct {
	store   credstore.Store
	backend api.Backend
	log     logger.Logger
	timeNow func() time.Time
}

func NewSelector(store credstore.Store, backend api.Backend, log logger.Logger) *Selector {
	return &Selector{
		store:   store,
		backend: backend,
		log:     log,
		timeNow: time.Now,
	}
}

// Classify runs the load-time decision: no token => logged out; token whose
// profile fetch fails => token purged, logged out; otherwise the profile's
// subscription-active flag picks between the two logged-in states.
func (s *Selector) Classify(ctx context.Context) (Selection, error) {
	token, err := s.store.Token(ctx)
	if err != nil {
		if errors.Is(err, credstore.ErrNotFound) {
			return Selection{State: StateLoggedOut, OnlyBookmarks: true}, nil
		}
		return Selection{}, fmt.Errorf("failed to read stored token: %w", err)
	}

	profile, err := s.backend.Profile(ctx, token)
	if err != nil {
		// Unauthorized, rate limited and unreachable all land here; the
		// stored token is discarded either way and the user falls back to
		// the logged-out view.
		s.log.Info("profile fetch failed, discarding stored token", logger.Error(err))
		if rmErr := s.store.RemoveToken(ctx); rmErr != nil {
			s.log.Warn("failed to purge stale token", logger.Error(rmErr))
		}
		return Selection{State: StateLoggedOut, OnlyBookmarks: true}, nil
	}

	sel := Selection{UserID: profile.UserID}

	if profile.Subscription != nil {
		sub, convErr := profile.Subscription.Domain()
		if convErr != nil {
			s.log.Warn("profile carried malformed subscription", logger.Error(convErr))
		} else {
			sub.UserID = profile.UserID
			sel.Subscription = &sub
		}
	}

	if sel.Subscription != nil && sel.Subscription.Active {
		sel.State = StateSubscribed
		sel.Status = sel.Subscription.Status(s.timeNow())
		return sel, nil
	}

	sel.State = StateNoSubscription
	sel.OnlyBookmarks = true
	if sel.Subscription != nil {
		sel.Status = domain.StatusInactive
	}
	return sel, nil
}
