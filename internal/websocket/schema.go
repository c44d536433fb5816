package websocket

import "github.com/stemsi/fitbook-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError        Event = "error"
	EventSnapshot     Event = "snapshot"
	EventAvailability Event = "availability"
	EventPong         Event = "pong"
)

// SnapshotResponse is sent once on connect with the current free slots of
// every bookable class.
type SnapshotResponse struct {
	Event   Event                     `json:"event"`
	Classes []model.ClassAvailability `json:"classes"`
}

// AvailabilityResponse is pushed whenever a booking changes a class's slots.
// Seq increases per class; events never arrive with a lower Seq than one
// already sent for the same class.
type AvailabilityResponse struct {
	Event          Event `json:"event"`
	ClassID        int64 `json:"class_id"`
	AvailableSlots int   `json:"available_slots"`
	Seq            int64 `json:"seq"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
