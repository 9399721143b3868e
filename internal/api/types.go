package api

import (
	"fmt"
	"time"

	"github.com/findmylink/companion/internal/domain"
)

// Profile is the authenticated user as returned by GET /api/v1/profile.
type Profile struct {
	UserID       int64             `json:"user_id"`
	Subscription *SubscriptionInfo `json:"subscription,omitempty"`
}

// SubscriptionInfo is the subscription block embedded in the profile and
// returned by GET /api/v1/subscription/{id}.
type SubscriptionInfo struct {
	UserID      int64  `json:"user_id,omitempty"`
	EndDate     string `json:"end_date"`
	Active      bool   `json:"active"`
	TrialUsed   bool   `json:"trial_used,omitempty"`
	AutoRenewal bool   `json:"auto_renewal,omitempty"`
}

// endDateLayouts are the formats the backend has been seen emitting.
var endDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Domain converts the wire subscription into its domain form.
func (s *SubscriptionInfo) Domain() (domain.Subscription, error) {
	sub := domain.Subscription{
		UserID:      s.UserID,
		Active:      s.Active,
		TrialUsed:   s.TrialUsed,
		AutoRenewal: s.AutoRenewal,
	}
	if s.EndDate == "" {
		return sub, nil
	}
	for _, layout := range endDateLayouts {
		if t, err := time.Parse(layout, s.EndDate); err == nil {
			sub.EndDate = t
			return sub, nil
		}
	}
	return sub, fmt.Errorf("unparsable subscription end_date: %q", s.EndDate)
}

// PromoResult is the response to POST /api/v1/apply_promo.
type PromoResult struct {
	Message string `json:"message"`
}

// AuthResult is the response to POST /api/v1/auth/telegram.
type AuthResult struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
}
