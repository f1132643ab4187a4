package entities

import "time"

// VersionSnapshot is an immutable copy of a facility's prior state, taken
// immediately before an overwrite. FacilityID is a foreign reference, not
// ownership: deleting the facility leaves its snapshots addressable until
// they are separately cleaned up or evicted by the retention cap.
type VersionSnapshot struct {
	ID         string    `json:"id" db:"id"`
	FacilityID string    `json:"facility_id" db:"facility_id"`
	Record     Facility  `json:"record" db:"-"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
