package entity

// StudioStats aggregates the instructor dashboard numbers.
type StudioStats struct {
	ActiveClasses     int64 `db:"active_classes"`
	TotalBookings     int64 `db:"total_bookings"`
	UpcomingBookings  int64 `db:"upcoming_bookings"`
	RevenueCentsPaid  int64 `db:"revenue_cents_paid"`
	CancelledBookings int64 `db:"cancelled_bookings"`
}
