package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Money
		wantErr bool
	}{
		{in: "50", want: 5000},
		{in: "50.5", want: 5050},
		{in: "0.01", want: 1},
		{in: " 1000.00 ", want: 100000},
		{in: "-2.50", want: -250},
		{in: "1.234", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
		{in: "92233720368547758.07", want: math.MaxInt64},
		{in: "-92233720368547758.08", want: math.MinInt64},
		{in: "92233720368547758.08", wantErr: true},
		{in: "-92233720368547758.09", wantErr: true},
		{in: "184467440737095516.16", wantErr: true},
		{in: "184467440737095517.16", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseMoney(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidAmount))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMoneyString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "950.00", Money(95000).String())
	assert.Equal(t, "0.07", Money(7).String())
	assert.Equal(t, "-1.50", Money(-150).String())
}

func TestNewCourse(t *testing.T) {
	t.Parallel()

	c, err := NewCourse("Blue Hills Country Club", []int{4, 4, 3, 5, 4, 4, 3, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, "blue-hills-country-club", c.ID)
	assert.Equal(t, 36, c.TotalPar())

	_, err = NewCourse("Short", []int{4, 4, 4})
	assert.ErrorIs(t, err, ErrInvalidCourse)

	_, err = NewCourse("Weird", []int{4, 4, 4, 4, 4, 4, 4, 4, 9})
	assert.ErrorIs(t, err, ErrInvalidCourse)
}

func TestFormatMaxPlayers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, Solo.MaxPlayers())
	assert.Equal(t, 2, OneVOne.MaxPlayers())
	assert.Equal(t, 3, TwoVOne.MaxPlayers())
	assert.Equal(t, 4, TwoVTwo.MaxPlayers())

	_, err := ParseFormat("4-way")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestMatchHolePointer(t *testing.T) {
	t.Parallel()

	m := &Match{
		Status:       StatusWaiting,
		MaxPlayers:   2,
		Participants: []string{"a"},
		Holes:        []Hole{{Number: 1}, {Number: 2}, {Number: 3}},
		ExpiresAt:    time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, 1, m.NextHole())
	m.Holes[0].Completed = true
	m.Holes[1].Completed = true
	assert.Equal(t, 3, m.NextHole())
	m.Holes[2].Completed = true
	assert.Equal(t, 3, m.NextHole())
	assert.True(t, m.AllHolesCompleted())

	assert.True(t, m.Joinable(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, m.Joinable(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, m.Hole(4))
	assert.Equal(t, -1, m.Seat("b"))
}
