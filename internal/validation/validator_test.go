package validation

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestIsRoll(t *testing.T) {
    tests := []struct {
        in   string
        want bool
    }{
        {"1234567", true},
        {"0000000", true},
        {"123456", false},
        {"12345678", false},
        {"12345a7", false},
        {"１２３４５６７", false}, // full-width digits are not ASCII
        {"", false},
    }
    for _, tt := range tests {
        assert.Equal(t, tt.want, IsRoll(tt.in), tt.in)
    }
}

func TestIsDate(t *testing.T) {
    assert.True(t, IsDate("2025-03-10"))
    assert.True(t, IsDate("2024-02-29"))
    assert.False(t, IsDate("2025-02-29"))
    assert.False(t, IsDate("10-03-2025"))
    assert.True(t, IsDate("2025-3-9"))
    assert.False(t, IsDate("2025-003-10"))
    assert.False(t, IsDate(""))
}

func TestNormalizeDate(t *testing.T) {
    for in, want := range map[string]string{
        "2025-03-10": "2025-03-10",
        "2025-3-10":  "2025-03-10",
        "2025-3-1":   "2025-03-01",
    } {
        got, ok := NormalizeDate(in)
        assert.True(t, ok, in)
        assert.Equal(t, want, got, in)
    }
    _, ok := NormalizeDate("2025/03/10")
    assert.False(t, ok)
}

func TestCustomTags(t *testing.T) {
    assert.NoError(t, Var("Zia Hall", "hall"))
    assert.Error(t, Var("Unknown Hall", "hall"))
    assert.NoError(t, Var("Dinner", "mealtype"))
    assert.Error(t, Var("Breakfast", "mealtype"))
    assert.NoError(t, Var("2025-03-10", "isodate"))
    assert.Error(t, Var("2025/03/10", "isodate"))
    assert.NoError(t, Var("7654321", "roll"))
    assert.Error(t, Var("765432", "roll"))
}

func TestFirstFailure(t *testing.T) {
    type form struct {
        Email string `validate:"required,email"`
        Roll  string `validate:"roll"`
    }

    err := Struct(form{Email: "a@b.com", Roll: "12"})
    require.Error(t, err)
    field, tag, ok := FirstFailure(err)
    require.True(t, ok)
    assert.Equal(t, "Roll", field)
    assert.Equal(t, "roll", tag)

    _, _, ok = FirstFailure(assert.AnError)
    assert.False(t, ok)
}
