package domain

import "time"

// Subscription is the remote-backend entitlement record gating the
// cross-tab search and bookmark deletion features.
type Subscription struct {
	UserID      int64
	EndDate     time.Time
	Active      bool
	TrialUsed   bool
	AutoRenewal bool
}

// StatusVariant is the indicator variant rendered next to the subscription
// status line.
type StatusVariant string

const (
	StatusInactive StatusVariant = "red"    // not active
	StatusExpiring StatusVariant = "yellow" // active, ends within two weeks
	StatusHealthy  StatusVariant = "green"  // active, more than two weeks left
)

// healthyWindow is how far out the end date must be for the long-validity
// variant.
const healthyWindow = 14 * 24 * time.Hour

// Status classifies the subscription relative to now.
func (s Subscription) Status(now time.Time) StatusVariant {
	if !s.Active {
		return StatusInactive
	}
	if s.EndDate.After(now.Add(healthyWindow)) {
		return StatusHealthy
	}
	return StatusExpiring
}
