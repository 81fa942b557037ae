package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatGainOrg(t *testing.T) {
	g := sampleGain("01HXAMPLE00000000000000000", "run-1",
		time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC))

	out := FormatGainOrg(g)
	assert.True(t, strings.HasPrefix(out, "** Gain: 1.5 ETH (01HXAMPL)"), out)
	assert.Contains(t, out, ":PROPERTIES:")
	assert.Contains(t, out, ":GAIN: 1000.00")
	assert.Contains(t, out, ":TERM: long-term")
	assert.Contains(t, out, ":END:")
}

func TestFormatGainsOrgSeparation(t *testing.T) {
	disposed := time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)
	out := FormatGainsOrg([]GainRecord{
		sampleGain("g-1", "run-1", disposed),
		sampleGain("g-2", "run-1", disposed),
	})
	assert.Equal(t, 2, strings.Count(out, "** Gain:"))
	assert.Contains(t, out, ":GAIN_ID: g-2")
}
