package clock

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
)

func TestManualClock(t *testing.T) {
	start := time.Date(2024, 3, 31, 0, 30, 0, 0, time.UTC)
	c := NewManual(start)
	assert.Equal(t, start, c.Now())

	got := c.Advance(time.Hour)
	assert.Equal(t, start.Add(time.Hour), got)
	assert.Equal(t, got, c.Now())

	london, err := time.LoadLocation("Europe/London")
	assert.NoError(t, err)
	c.Set(time.Date(2024, 7, 1, 12, 0, 0, 0, london))
	assert.Equal(t, time.UTC, c.Now().Location())
	assert.Equal(t, 11, c.Now().Hour())
}

func TestSystemClockIsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, System{}.Now().Location())
}

func TestZeroManualStartsAtEpoch(t *testing.T) {
	var c Manual
	assert.Equal(t, time.Unix(0, 0).UTC(), c.Now())
	assert.Equal(t, time.Unix(60, 0).UTC(), c.Advance(time.Minute))
}
