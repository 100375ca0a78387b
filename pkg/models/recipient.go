// Package models defines the domain types shared across the service.
package models

import (
	"strconv"
	"time"
)

// User is a registered account. Authentication is handled upstream;
// the service only needs the owning key for recipients, purchases and
// feedback.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Recipient is a person a user is shopping gifts for.
type Recipient struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Name         string    `json:"name"`
	Relationship string    `json:"relationship"`
	Age          int       `json:"age"`
	Gender       string    `json:"gender"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AgeBucket returns the decade bucket used for product age-range
// matching, e.g. 28 -> "20s". Ages under 10 map to "0s".
func (r *Recipient) AgeBucket() string {
	if r.Age < 0 {
		return ""
	}
	decade := (r.Age / 10) * 10
	return strconv.Itoa(decade) + "s"
}

// Preference types recognised by the scorers. Free-form values are
// allowed; these constants cover the types the scorers interpret.
const (
	PreferenceInterest = "interest"
	PreferenceBrand    = "brand"
	PreferenceBudget   = "budget"
	PreferenceColor    = "color"
	PreferenceSize     = "size"
)

// Preference is a typed attribute attached to a recipient. Multiple
// preferences of the same type are allowed.
type Preference struct {
	ID          int64     `json:"id"`
	RecipientID int64     `json:"recipient_id"`
	Type        string    `json:"type"`
	Value       string    `json:"value"`
	Importance  int       `json:"importance"` // 1-10, 0 means unset
	CreatedAt   time.Time `json:"created_at"`
}

// Occasion is an upcoming gifting event for a recipient.
type Occasion struct {
	ID           int64     `json:"id"`
	RecipientID  int64     `json:"recipient_id"`
	Name         string    `json:"name"`
	Date         time.Time `json:"date"`
	Recurring    bool      `json:"recurring"`
	ReminderDays int       `json:"reminder_days"`
	CreatedAt    time.Time `json:"created_at"`
}
