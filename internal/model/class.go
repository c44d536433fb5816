package model

import "time"

// ClassSession is a scheduled fitness class with remaining capacity.
// StartsAt is an absolute instant; Timezone records the zone it was authored in.
type ClassSession struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	StartsAt       time.Time `json:"starts_at"`
	Timezone       string    `json:"timezone"`
	Instructor     string    `json:"instructor"`
	AvailableSlots int       `json:"available_slots"`
}

// InZone returns a copy of the session with StartsAt expressed in loc.
func (c ClassSession) InZone(loc *time.Location) ClassSession {
	c.StartsAt = c.StartsAt.In(loc)
	return c
}

// ClassAvailability is broadcast whenever a booking changes a class's free slots.
// Seq is the committing booking's id. Bookings on one class commit in id
// order, so a lower Seq for the same class is an older state.
type ClassAvailability struct {
	ClassID        int64 `json:"class_id"`
	AvailableSlots int   `json:"available_slots"`
	Seq            int64 `json:"seq"`
}

// Supersedes reports whether a is newer than prev for the same class.
// Events without a Seq are always taken.
func (a ClassAvailability) Supersedes(prev ClassAvailability) bool {
	return a.Seq == 0 || a.Seq > prev.Seq
}
