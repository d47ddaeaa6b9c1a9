package service

import (
    "time"

    "github.com/iliyamo/dining-hall-reservation/internal/model"
)

// BookingWindow returns the interval in which tickets for date may be
// reserved: from WindowOpenHour on the previous day to WindowCloseHour on
// date itself, in date's location.
func BookingWindow(date time.Time) (start, end time.Time) {
    y, m, d := date.Date()
    loc := date.Location()
    start = time.Date(y, m, d-1, model.WindowOpenHour, 0, 0, 0, loc)
    end = time.Date(y, m, d, model.WindowCloseHour, 0, 0, 0, loc)
    return start, end
}

// InBookingWindow reports whether now falls inside the window for date.
// Both ends are inclusive.
func InBookingWindow(now, date time.Time) bool {
    start, end := BookingWindow(date)
    return !now.Before(start) && !now.After(end)
}

// DefaultBookingDate is the date the booking page offers at now: tomorrow
// once the evening window has opened or before the morning close,
// otherwise today.
func DefaultBookingDate(now time.Time) string {
    if now.Hour() >= model.WindowOpenHour || now.Hour() < model.WindowCloseHour {
        return now.AddDate(0, 0, 1).Format(model.DateLayout)
    }
    return now.Format(model.DateLayout)
}
