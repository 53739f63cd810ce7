package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Coco120903/batinos-garden-resort/internal/booking"
	"github.com/Coco120903/batinos-garden-resort/internal/model"
)

// BookingRepo persists bookings and their extra line items.  It also
// carries the transactional primitives the admission engine runs its
// conflict check through.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

// InTx runs fn inside a single transaction.  The transaction rides the
// context, so every repo call made with the derived context joins it.
func (r *BookingRepo) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return runInTx(ctx, r.DB, fn)
}

// LockService takes a row lock on the service so concurrent admissions
// for the same service serialize on the conflict check.  Must be called
// inside InTx.
func (r *BookingRepo) LockService(ctx context.Context, serviceID uint64) error {
	var id uint64
	err := q(ctx, r.DB).QueryRowContext(ctx,
		`SELECT id FROM services WHERE id=? FOR UPDATE`, serviceID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return booking.ErrServiceNotFound
	}
	return err
}

// FindOverlap returns the first pending or approved booking of the
// service whose [start_at, end_at) window intersects [start, end).
// excludeID skips a booking (its own row during reschedule); pass 0 to
// check them all.  Returns nil when the window is free.
func (r *BookingRepo) FindOverlap(ctx context.Context, serviceID uint64, start, end time.Time, excludeID uint64) (*model.Booking, error) {
	row := q(ctx, r.DB).QueryRowContext(ctx,
		`SELECT id, start_at, end_at, status FROM bookings
		 WHERE service_id=? AND id<>? AND status IN (?,?)
		   AND start_at < ? AND end_at > ?
		 ORDER BY start_at LIMIT 1`,
		serviceID, excludeID, model.StatusPending, model.StatusApproved, end, start)

	var b model.Booking
	err := row.Scan(&b.ID, &b.StartAt, &b.EndAt, &b.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts the booking and its extras and fills in the new id.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	var optionID any
	if b.OptionID != 0 {
		optionID = b.OptionID
	}
	res, err := q(ctx, r.DB).ExecContext(ctx,
		`INSERT INTO bookings (user_id, service_id, option_id, start_at, end_at, pax_count,
			event_type, event_type_other, notes, status,
			base_price, excess_pax_fee, extras_total, total_price)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.UserID, b.ServiceID, optionID, b.StartAt, b.EndAt, b.PaxCount,
		b.EventType, b.EventTypeOther, b.Notes, b.Status,
		b.Pricing.BasePrice, b.Pricing.ExcessPaxFee, b.Pricing.ExtrasTotal, b.Pricing.Total)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	for _, e := range b.Extras {
		_, err := q(ctx, r.DB).ExecContext(ctx,
			`INSERT INTO booking_extras (booking_id, extra_code, pricing_key, quantity, unit_price, line_total)
			 VALUES (?,?,?,?,?,?)`,
			b.ID, e.ExtraCode, e.PricingKey, e.Quantity, e.UnitPrice, e.LineTotal)
		if err != nil {
			return err
		}
	}
	return nil
}

const bookingSelect = `SELECT b.id, b.user_id, b.service_id, COALESCE(b.option_id, 0),
	b.start_at, b.end_at, b.pax_count, b.event_type, b.event_type_other, b.notes, b.status,
	b.base_price, b.excess_pax_fee, b.extras_total, b.total_price,
	COALESCE(b.approved_by, 0), COALESCE(b.cancelled_by, 0), b.cancellation_reason,
	b.created_at, b.updated_at,
	u.name, u.email, s.name
	FROM bookings b
	JOIN users u ON u.id = b.user_id
	JOIN services s ON s.id = b.service_id`

type bookingScanner interface{ Scan(dest ...any) error }

func scanBooking(row bookingScanner) (model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.UserID, &b.ServiceID, &b.OptionID,
		&b.StartAt, &b.EndAt, &b.PaxCount, &b.EventType, &b.EventTypeOther, &b.Notes, &b.Status,
		&b.Pricing.BasePrice, &b.Pricing.ExcessPaxFee, &b.Pricing.ExtrasTotal, &b.Pricing.Total,
		&b.ApprovedBy, &b.CancelledBy, &b.CancellationReason,
		&b.CreatedAt, &b.UpdatedAt,
		&b.UserName, &b.UserEmail, &b.ServiceName)
	return b, err
}

// GetByID loads a booking with its joined user and service names plus
// extras.  Missing ids yield booking.ErrNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	b, err := scanBooking(q(ctx, r.DB).QueryRowContext(ctx, bookingSelect+` WHERE b.id=? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if b.Extras, err = r.extrasFor(ctx, id); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepo) extrasFor(ctx context.Context, bookingID uint64) ([]model.BookingExtra, error) {
	rows, err := q(ctx, r.DB).QueryContext(ctx,
		`SELECT extra_code, pricing_key, quantity, unit_price, line_total
		 FROM booking_extras WHERE booking_id=? ORDER BY id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var extras []model.BookingExtra
	for rows.Next() {
		var e model.BookingExtra
		if err := rows.Scan(&e.ExtraCode, &e.PricingKey, &e.Quantity, &e.UnitPrice, &e.LineTotal); err != nil {
			return nil, err
		}
		extras = append(extras, e)
	}
	return extras, rows.Err()
}

// Update rewrites the mutable booking fields after a lifecycle
// transition.
func (r *BookingRepo) Update(ctx context.Context, b *model.Booking) error {
	var approvedBy, cancelledBy any
	if b.ApprovedBy != 0 {
		approvedBy = b.ApprovedBy
	}
	if b.CancelledBy != 0 {
		cancelledBy = b.CancelledBy
	}
	res, err := q(ctx, r.DB).ExecContext(ctx,
		`UPDATE bookings SET start_at=?, end_at=?, notes=?, status=?,
			approved_by=?, cancelled_by=?, cancellation_reason=?
		 WHERE id=?`,
		b.StartAt, b.EndAt, b.Notes, b.Status,
		approvedBy, cancelledBy, b.CancellationReason, b.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return booking.ErrNotFound
	}
	return err
}

// ListByUser returns the user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	rows, err := q(ctx, r.DB).QueryContext(ctx,
		bookingSelect+` WHERE b.user_id=? ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(ctx, rows)
}

// ListFilter narrows the admin booking list.
type ListFilter struct {
	Status    string
	ServiceID uint64
	From      time.Time
	To        time.Time
	Page      int
	PerPage   int
}

// List returns a page of bookings matching the filter plus the total
// match count for pagination.
func (r *BookingRepo) List(ctx context.Context, f ListFilter) ([]model.Booking, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if f.Status != "" {
		where += ` AND b.status=?`
		args = append(args, f.Status)
	}
	if f.ServiceID != 0 {
		where += ` AND b.service_id=?`
		args = append(args, f.ServiceID)
	}
	if !f.From.IsZero() {
		where += ` AND b.end_at > ?`
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		where += ` AND b.start_at < ?`
		args = append(args, f.To)
	}

	var total int
	err := q(ctx, r.DB).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings b`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	if f.PerPage <= 0 {
		f.PerPage = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	args = append(args, f.PerPage, (f.Page-1)*f.PerPage)
	rows, err := q(ctx, r.DB).QueryContext(ctx,
		bookingSelect+where+` ORDER BY b.created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list, err := r.collect(ctx, rows)
	return list, total, err
}

func (r *BookingRepo) collect(ctx context.Context, rows *sql.Rows) ([]model.Booking, error) {
	var list []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range list {
		extras, err := r.extrasFor(ctx, list[i].ID)
		if err != nil {
			return nil, err
		}
		list[i].Extras = extras
	}
	return list, nil
}
