package multiwallet_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/multiwallet"
)

func TestUnixTimeDayBucketing(t *testing.T) {
	// days are fixed length 86400 second buckets since the epoch
	assert.Equal(t, multiwallet.UnixDay(0), multiwallet.UnixTime(0).Day())
	assert.Equal(t, multiwallet.UnixDay(0), multiwallet.UnixTime(86399).Day())
	assert.Equal(t, multiwallet.UnixDay(1), multiwallet.UnixTime(86400).Day())

	at := time.Date(2019, time.May, 7, 10, 0, 0, 0, time.UTC)
	day := multiwallet.AsUnixTime(at).Day()

	// every moment of the same calendar day maps to the same bucket
	later := at.Add(13 * time.Hour)
	assert.Equal(t, day, multiwallet.AsUnixTime(later).Day())
	// and the next day to the following one
	assert.Equal(t, day+1, multiwallet.AsUnixTime(at.Add(24*time.Hour)).Day())
}

func TestUnixTimeAdd(t *testing.T) {
	now := multiwallet.AsUnixTime(time.Now())
	assert.Equal(t, now+60, now.Add(time.Minute))
	assert.Equal(t, now-60, now.Add(-time.Minute))
	// sub-second durations are truncated
	assert.Equal(t, now, now.Add(999*time.Millisecond))
}

func TestUnixTimeJSON(t *testing.T) {
	var unix multiwallet.UnixTime

	// a number is the usual representation
	require.NoError(t, unix.UnmarshalJSON([]byte(`1557223200`)))
	assert.Equal(t, multiwallet.UnixTime(1557223200), unix)

	// a string format is convenient in genesis files
	require.NoError(t, unix.UnmarshalJSON([]byte(`"2019-05-07T10:00:00Z"`)))
	assert.Equal(t, multiwallet.UnixTime(1557223200), unix)

	assert.Error(t, unix.UnmarshalJSON([]byte(`-5`)))
	assert.Error(t, unix.UnmarshalJSON([]byte(`"garbage"`)))
}
