package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Idkwii/Cycle-youtube-analytics/infrastructure/utils"
)

func TestParseISODuration(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"PT1H2M10S", 3730},
		{"PT45S", 45},
		{"PT3M", 180},
		{"PT2H", 7200},
		{"PT1H30S", 3630},
		{"PT", 0},
		{"", 0},
		{"garbage", 0},
		{"P1DT2H", 0},
		{"PT1M30", 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, utils.ParseISODuration(c.in), "input %q", c.in)
	}
}

func TestIsShortDuration(t *testing.T) {
	assert.True(t, utils.IsShortDuration(0))
	assert.True(t, utils.IsShortDuration(59))
	assert.True(t, utils.IsShortDuration(180))
	assert.False(t, utils.IsShortDuration(181))
	assert.False(t, utils.IsShortDuration(3600))
}
