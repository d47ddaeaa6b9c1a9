package model

// Booking is one meal ticket.  A reservation of N tickets produces N rows
// sharing user, hall, meal type and date but with distinct ids.  Rows are
// created by a reservation and removed by cancellation or a date reset;
// they are never updated.
type Booking struct {
    ID          int64  `db:"id" json:"id"`                     // bookings.id
    UserEmail   string `db:"user_email" json:"user_email"`     // bookings.user_email
    Hall        string `db:"hall" json:"hall"`                 // bookings.hall
    MealType    string `db:"meal_type" json:"meal_type"`       // bookings.meal_type
    BookingDate string `db:"booking_date" json:"booking_date"` // bookings.booking_date (YYYY-MM-DD)
}

// MealCounts holds the number of booked tickets per meal type for one
// hall on one date.
type MealCounts struct {
    Lunch  int `json:"Lunch"`
    Dinner int `json:"Dinner"`
}

// Get returns the count for mealType; unknown meal types count as zero.
func (m MealCounts) Get(mealType string) int {
    switch mealType {
    case MealLunch:
        return m.Lunch
    case MealDinner:
        return m.Dinner
    }
    return 0
}

// Add increments the count for mealType by n.
func (m *MealCounts) Add(mealType string, n int) {
    switch mealType {
    case MealLunch:
        m.Lunch += n
    case MealDinner:
        m.Dinner += n
    }
}
