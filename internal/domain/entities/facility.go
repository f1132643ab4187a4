package entities

import (
	"encoding/json"
	"time"
)

// Facility represents a public swimming facility in the directory.
// Records are written whole; partial updates never happen, so a value read
// back from any store is always a complete version.
type Facility struct {
	ID            string         `json:"id" db:"id"`
	Name          string         `json:"name" db:"name"`
	Address       string         `json:"address" db:"address"`
	Region        string         `json:"region" db:"region"`
	PhoneNumber   string         `json:"phone_number" db:"phone_number"`
	ImageURL      string         `json:"image_url,omitempty" db:"image_url"`
	Location      Location       `json:"location" db:"-"`
	FeeRules      []FeeRule      `json:"fee_rules,omitempty" db:"-"`
	ScheduleRules []ScheduleRule `json:"schedule_rules,omitempty" db:"-"`
	ClosedDays    ClosedDays     `json:"closed_days" db:"-"`
	IsPublic      *bool          `json:"is_public,omitempty" db:"is_public"`
	Reviews       []Review       `json:"reviews,omitempty" db:"-"`
	CreatedBy     string         `json:"created_by,omitempty" db:"created_by"`
	UpdatedBy     string         `json:"updated_by,omitempty" db:"updated_by"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// FeeRule is a labelled admission fee. An empty fee list means "no known
// fee", not an error.
type FeeRule struct {
	Label  string `json:"label"`
	Amount int    `json:"amount"`
}

// Review is visitor feedback attached to a facility. The core treats
// reviews as opaque cargo; they are stored and round-tripped unchanged.
type Review struct {
	ID        string    `json:"id"`
	Author    string    `json:"author,omitempty"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Public reports whether the facility should be listed. A missing flag
// defaults to public.
func (f *Facility) Public() bool {
	return f.IsPublic == nil || *f.IsPublic
}

// Clone returns a deep copy of the facility via a JSON round trip.
// Used when snapshotting a prior version so history entries never share
// slices with the live record.
func (f *Facility) Clone() *Facility {
	data, err := json.Marshal(f)
	if err != nil {
		return nil
	}
	clone := &Facility{}
	if err := json.Unmarshal(data, clone); err != nil {
		return nil
	}
	return clone
}
