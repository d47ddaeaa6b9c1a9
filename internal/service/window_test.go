package service

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestInBookingWindow(t *testing.T) {
    date := at("2025-03-10", 0, 0)
    tests := []struct {
        name string
        now  string
        h, m int
        want bool
    }{
        {"before open", "2025-03-09", 19, 59, false},
        {"at open", "2025-03-09", 20, 0, true},
        {"evening", "2025-03-09", 23, 30, true},
        {"after midnight", "2025-03-10", 3, 0, true},
        {"at close", "2025-03-10", 8, 0, true},
        {"after close", "2025-03-10", 8, 1, false},
        {"midday of date", "2025-03-10", 12, 0, false},
        {"two days before", "2025-03-08", 21, 0, false},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            assert.Equal(t, tt.want, InBookingWindow(at(tt.now, tt.h, tt.m), date))
        })
    }
}

func TestInBookingWindowAcrossMonth(t *testing.T) {
    assert.True(t, InBookingWindow(at("2025-02-28", 21, 0), at("2025-03-01", 0, 0)))
    assert.True(t, InBookingWindow(at("2024-12-31", 22, 0), at("2025-01-01", 0, 0)))
}

func TestDefaultBookingDate(t *testing.T) {
    assert.Equal(t, "2025-03-10", DefaultBookingDate(at("2025-03-09", 20, 0)))
    assert.Equal(t, "2025-03-10", DefaultBookingDate(at("2025-03-09", 23, 59)))
    assert.Equal(t, "2025-03-11", DefaultBookingDate(at("2025-03-10", 7, 59)))
    assert.Equal(t, "2025-03-10", DefaultBookingDate(at("2025-03-10", 8, 0)))
    assert.Equal(t, "2025-03-10", DefaultBookingDate(at("2025-03-10", 19, 59)))
}
