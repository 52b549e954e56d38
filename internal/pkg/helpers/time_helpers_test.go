package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 2*time.Hour, ParseDuration("2h", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("not-a-duration", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("", time.Minute))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2005-08-14")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 2005, d.Year())
	assert.Equal(t, time.August, d.Month())
	assert.Equal(t, 14, d.Day())
}

func TestParseDateEmpty(t *testing.T) {
	d, err := ParseDate("")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestParseDateInvalid(t *testing.T) {
	_, err := ParseDate("14/08/2005")
	assert.Error(t, err)
}
