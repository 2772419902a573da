package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHour(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"10:00 AM", 10},
		{"3:30 PM", 15},
		{"3:30PM", 15},
		{"12:00 PM", 12},
		{"12:15 AM", 0},
		{"14:00", 14},
		{"23:59", 23},
		{"", 12},
		{"TBD", 12},
		{"99:00", 12},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseHour(tt.in), "time %q", tt.in)
	}
}

func TestDescribeWeatherCode(t *testing.T) {
	assert.Equal(t, "Clear sky", describeWeatherCode(0))
	assert.Equal(t, "Partly cloudy", describeWeatherCode(2))
	assert.Equal(t, "Foggy", describeWeatherCode(45))
	assert.Equal(t, "Drizzle", describeWeatherCode(53))
	assert.Equal(t, "Rain", describeWeatherCode(63))
	assert.Equal(t, "Snow", describeWeatherCode(73))
	assert.Equal(t, "Rain showers", describeWeatherCode(81))
	assert.Equal(t, "Thunderstorm", describeWeatherCode(95))
	assert.Equal(t, "Thunderstorm with hail", describeWeatherCode(99))
	assert.Equal(t, "Unknown", describeWeatherCode(42))
}
