package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("09:30")
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:30"), ts)

	// "24:00" допускается как конец рабочего дня
	ts, err = NewTimeStringFromString("24:00")
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), ts)

	for _, invalid := range []string{"25:00", "0930", "12:60", ""} {
		_, err := NewTimeStringFromString(invalid)
		assert.Error(t, err, "expected %q to be rejected", invalid)
	}
}

func TestNewTimeStringFromMinutes(t *testing.T) {
	ts, err := NewTimeStringFromMinutes(9*60 + 5)
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:05"), ts)

	ts, err = NewTimeStringFromMinutes(MinutesPerDay)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), ts)

	_, err = NewTimeStringFromMinutes(-1)
	assert.Error(t, err)
	_, err = NewTimeStringFromMinutes(MinutesPerDay + 1)
	assert.Error(t, err)
}

func TestMinutes(t *testing.T) {
	minutes, err := TimeString("14:45").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 14*60+45, minutes)

	minutes, err = TimeString("00:00").Minutes()
	require.NoError(t, err)
	assert.Zero(t, minutes)
}

func TestAddMinutes(t *testing.T) {
	ts, err := TimeString("09:00").AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:30"), ts)

	ts, err = TimeString("23:00").AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), ts)

	// Выход за границу суток - ошибка
	_, err = TimeString("23:30").AddMinutes(60)
	assert.Error(t, err)
}

func TestLexicographicComparison(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.True(t, TimeString("09:59").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.True(t, TimeString("17:00").IsAfter("09:00"))
}

func TestScan(t *testing.T) {
	var ts TimeString

	// Postgres возвращает TIME с секундами
	require.NoError(t, ts.Scan("10:30:00"))
	assert.Equal(t, TimeString("10:30"), ts)

	require.NoError(t, ts.Scan([]byte("14:00:00")))
	assert.Equal(t, TimeString("14:00"), ts)

	require.NoError(t, ts.Scan(time.Date(2026, 9, 1, 8, 15, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("08:15"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestValue(t *testing.T) {
	v, err := TimeString("10:30").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:30", v)

	_, err = TimeString("25:00").Value()
	assert.Error(t, err)
}
