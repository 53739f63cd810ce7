package model

import "time"

// Booking lifecycle statuses.  A booking is created Pending, an admin
// moves it to Approved and finally Completed; Cancelled is reachable
// from Pending or Approved.  Completed and Cancelled are terminal.
const (
	StatusPending   = "Pending"
	StatusApproved  = "Approved"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

// Event types attached to a booking for display and planning.  Any
// unrecognized value falls back to EventOther; the free-text
// EventTypeOther field carries the detail.
const (
	EventFamilyGathering = "Family Gathering"
	EventBirthday        = "Birthday"
	EventReunion         = "Reunion"
	EventWedding         = "Wedding"
	EventTeamBuilding    = "Team Building"
	EventSpecialOccasion = "Special Occasion"
	EventOther           = "Other"
)

// KnownEventType reports whether t is one of the recognized event types.
func KnownEventType(t string) bool {
	switch t {
	case EventFamilyGathering, EventBirthday, EventReunion, EventWedding,
		EventTeamBuilding, EventSpecialOccasion, EventOther:
		return true
	}
	return false
}

// Pricing is the price snapshot computed when a booking is admitted.
// It is never recomputed afterwards; rescheduling moves the time
// window but keeps the snapshot.  Total always equals
// BasePrice + ExcessPaxFee + ExtrasTotal.
type Pricing struct {
	BasePrice    int64 `json:"basePrice"`    // bookings.base_price
	ExcessPaxFee int64 `json:"excessPaxFee"` // bookings.excess_pax_fee
	ExtrasTotal  int64 `json:"extrasTotal"`  // bookings.extras_total
	Total        int64 `json:"total"`        // bookings.total
}

// BookingExtra is one add-on line item frozen into the booking at
// admission time.  UnitPrice and LineTotal are snapshots of the
// catalog prices at creation.
type BookingExtra struct {
	ExtraCode  string `json:"extraCode"`  // booking_extras.extra_code
	PricingKey string `json:"pricingKey"` // booking_extras.pricing_key
	Quantity   int64  `json:"quantity"`   // booking_extras.quantity
	UnitPrice  int64  `json:"unitPrice"`  // booking_extras.unit_price
	LineTotal  int64  `json:"lineTotal"`  // booking_extras.line_total
}

// Booking is a time-bounded claim on a service by a user, as stored
// in the `bookings` table.  The core invariant: for a given service
// no two bookings with status Pending or Approved may have
// overlapping [StartAt, EndAt) windows.  Bookings are never deleted;
// cancellation is a status change.
//
// Fields:
//  ID                 – primary key identifier.
//  UserID             – owner of the booking.
//  ServiceID          – booked service.
//  OptionID           – selected package option, 0 when none.
//  StartAt, EndAt     – half-open reservation window, EndAt > StartAt.
//  Status             – one of the Status* constants.
//  EventType          – recognized event type, or "Other".
//  EventTypeOther     – free text when EventType is "Other".
//  PaxCount           – headcount, at least 1.
//  Notes              – free-text notes; reschedules append to it.
//  Pricing            – immutable price snapshot.
//  Extras             – add-on line items frozen at admission.
//  ApprovedBy         – admin who approved, 0 when not approved.
//  CancelledBy        – admin who cancelled, 0 when not cancelled.
//  CancellationReason – reason recorded on cancellation.
//  UserName, UserEmail, ServiceName – joined display fields, not columns
//                       of the bookings table itself.
//  CreatedAt          – creation timestamp.
//  UpdatedAt          – last update timestamp.
type Booking struct {
	ID                 uint64         // bookings.id
	UserID             uint64         // bookings.user_id
	ServiceID          uint64         // bookings.service_id
	OptionID           uint64         // bookings.option_id (0 = none)
	StartAt            time.Time      // bookings.start_at
	EndAt              time.Time      // bookings.end_at
	Status             string         // bookings.status
	EventType          string         // bookings.event_type
	EventTypeOther     string         // bookings.event_type_other
	PaxCount           int            // bookings.pax_count
	Notes              string         // bookings.notes
	Pricing            Pricing        // bookings.base_price .. bookings.total
	Extras             []BookingExtra // booking_extras rows
	ApprovedBy         uint64         // bookings.approved_by (0 = none)
	CancelledBy        uint64         // bookings.cancelled_by (0 = none)
	CancellationReason string         // bookings.cancellation_reason
	UserName           string         // users.name (joined)
	UserEmail          string         // users.email (joined)
	ServiceName        string         // services.name (joined)
	CreatedAt          time.Time      // bookings.created_at
	UpdatedAt          time.Time      // bookings.updated_at
}

// Active reports whether the booking occupies its time window for the
// purposes of conflict checking.
func (b *Booking) Active() bool {
	return b.Status == StatusPending || b.Status == StatusApproved
}

// Terminal reports whether the booking reached a final status.
func (b *Booking) Terminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// Overlaps reports whether the half-open window [start, end) intersects
// the booking's own window.  A booking ending exactly when another
// starts does not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartAt.Before(end) && b.EndAt.After(start)
}
