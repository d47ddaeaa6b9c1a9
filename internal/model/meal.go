package model

// Meal types accepted by the reservation flow.
const (
    MealLunch  = "Lunch"
    MealDinner = "Dinner"
)

// Reservation limits.
const (
    MinTicketsPerRequest = 1
    MaxTicketsPerRequest = 5
    // MaxTicketsPerUserMeal caps one user's tickets for one meal on one day.
    MaxTicketsPerUserMeal = 5
    // HallCapacity caps the tickets of one hall for one meal on one day.
    HallCapacity = 250
)

// The booking window for a date opens at WindowOpenHour on the previous
// day and closes at WindowCloseHour on the date itself, both inclusive.
const (
    WindowOpenHour  = 20
    WindowCloseHour = 8
)

// DateLayout is the storage and form format of booking dates.
const DateLayout = "2006-01-02"

// DateInputLayout parses submitted dates; month and day may drop the
// leading zero, so 2025-3-9 and 2025-03-09 are the same day.
const DateInputLayout = "2006-1-2"

// Payment methods offered on the payment page.  Cancel deletes the
// pending tickets; the others only acknowledge them.
const (
    PaymentCancel = "Cancel"
    PaymentBkash  = "Pay with bKash"
    PaymentRocket = "Pay with Rocket"
)

// Halls lists the dining halls that accept reservations, in display order.
var Halls = []string{"Shahidul Hall", "Selim Hall", "Zia Hall", "Bangabandhu Hall"}

// MealTypes lists the meal types in display order.
var MealTypes = []string{MealLunch, MealDinner}

// IsHall reports whether name is one of the known halls.
func IsHall(name string) bool {
    for _, h := range Halls {
        if h == name {
            return true
        }
    }
    return false
}

// IsMealType reports whether s is Lunch or Dinner.
func IsMealType(s string) bool { return s == MealLunch || s == MealDinner }

// IsPaymentMethod reports whether m is one of the settling payment methods.
func IsPaymentMethod(m string) bool { return m == PaymentBkash || m == PaymentRocket }
