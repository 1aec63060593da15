package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"payment-form/utils"
)

func TestOffsets(t *testing.T) {
	t.Parallel()

	ist := time.Date(2024, 6, 1, 0, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	assert.Equal(t, "+05:30", utils.FormatUTCOffset(ist))
	assert.Equal(t, -330, utils.TimezoneOffsetMinutes(ist))

	assert.Equal(t, "+05:30", utils.OffsetFromMinutes(-330))
	assert.Equal(t, "-03:00", utils.OffsetFromMinutes(180))
	assert.Equal(t, "+00:00", utils.OffsetFromMinutes(0))
}
