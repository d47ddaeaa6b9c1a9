package model

// PendingBooking is a reservation that has been written to the bookings
// table but not yet paid or cancelled.  It lives in the user's session
// between the booking and payment pages.
type PendingBooking struct {
    Hall        string  `json:"hall"`
    MealType    string  `json:"meal_type"`
    BookingIDs  []int64 `json:"booking_ids"`
    BookingDate string  `json:"booking_date"`
    TicketCount int     `json:"ticket_count"`
    SlipNumber  int     `json:"slip_number"` // 100000..999999, not persisted
}

// Complete reports whether every field needed by the payment page is set.
func (p PendingBooking) Complete() bool {
    return p.Hall != "" && p.MealType != "" && len(p.BookingIDs) > 0 &&
        p.TicketCount != 0 && p.BookingDate != "" && p.SlipNumber != 0
}
