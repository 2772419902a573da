// Package weather fetches game-time forecasts from Open-Meteo.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dugout-labs/teambot/pkg/logger"
)

type geocodingResponse struct {
	Results []geocodingResult `json:"results"`
}

type geocodingResult struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	Admin1    string  `json:"admin1"`
}

type forecastResponse struct {
	Hourly struct {
		Time                     []string  `json:"time"`
		Temperature2m            []float64 `json:"temperature_2m"`
		PrecipitationProbability []float64 `json:"precipitation_probability"`
		WeatherCode              []int     `json:"weather_code"`
	} `json:"hourly"`
	HourlyUnits struct {
		Temperature2m string `json:"temperature_2m"`
	} `json:"hourly_units"`
}

// Client resolves a free-form field location to coordinates and
// returns a one-line forecast for game time.
type Client struct {
	client *http.Client
	log    *logger.Logger
}

func NewClient(log *logger.Logger) *Client {
	return &Client{
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

// Forecast returns a short forecast line for the given location, date
// and game time string. An unparseable time defaults to noon.
func (c *Client) Forecast(ctx context.Context, location string, date time.Time, timeStr string) (string, error) {
	lat, lon, name, err := c.geocode(ctx, location)
	if err != nil {
		return "", err
	}

	hour := parseHour(timeStr)

	day := date.Format("2006-01-02")
	u := fmt.Sprintf("https://api.open-meteo.com/v1/forecast?latitude=%g&longitude=%g"+
		"&hourly=temperature_2m,precipitation_probability,weather_code"+
		"&temperature_unit=fahrenheit&start_date=%s&end_date=%s&timezone=auto",
		lat, lon, day, day)

	c.log.Debug("fetching weather",
		zap.String("location", name), zap.String("date", day), zap.Int("hour", hour))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("weather API returned %s", resp.Status)
	}

	var forecast forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		return "", fmt.Errorf("failed to decode forecast: %w", err)
	}

	// Hourly data starts at 00:00 local time, one entry per hour
	if hour >= len(forecast.Hourly.Time) {
		return "Weather data not available for this time.", nil
	}

	temp := forecast.Hourly.Temperature2m[hour]
	precip := forecast.Hourly.PrecipitationProbability[hour]
	condition := describeWeatherCode(forecast.Hourly.WeatherCode[hour])
	unit := forecast.HourlyUnits.Temperature2m

	return fmt.Sprintf("🌡️ Forecast for %s: %.1f%s - %s, 💧 %.0f%% precip",
		name, temp, unit, condition, precip), nil
}

// geocode tries progressively looser readings of the location string:
// the parenthesized city, city-before-state after a comma, then the
// whole string with parentheses stripped.
func (c *Client) geocode(ctx context.Context, location string) (float64, float64, string, error) {
	if start, end := strings.Index(location, "("), strings.Index(location, ")"); start >= 0 && start < end {
		inner := strings.TrimSpace(location[start+1 : end])
		if inner != "" {
			if lat, lon, name, err := c.fetchGeocoding(ctx, inner); err == nil {
				return lat, lon, name, nil
			}
		}
	}

	if idx := strings.LastIndex(location, ","); idx >= 0 {
		words := strings.Fields(location[:idx])
		for n := 1; n <= 3 && n <= len(words); n++ {
			candidate := strings.Join(words[len(words)-n:], " ")
			if lat, lon, name, err := c.fetchGeocoding(ctx, candidate); err == nil {
				return lat, lon, name, nil
			}
		}
	}

	clean := location
	if idx := strings.Index(clean, "("); idx >= 0 {
		clean = clean[:idx]
	}
	clean = strings.TrimSpace(clean)
	if clean != "" && !strings.EqualFold(clean, "TBD") {
		if lat, lon, name, err := c.fetchGeocoding(ctx, clean); err == nil {
			return lat, lon, name, nil
		}
	}

	c.log.Warn("location not found", zap.String("location", location))
	return 0, 0, "", fmt.Errorf("location not found: %s", location)
}

func (c *Client) fetchGeocoding(ctx context.Context, query string) (float64, float64, string, error) {
	u := "https://geocoding-api.open-meteo.com/v1/search?name=" + url.QueryEscape(query) +
		"&count=1&language=en&format=json"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, 0, "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, 0, "", err
	}
	defer resp.Body.Close()

	var geo geocodingResponse
	if err := json.NewDecoder(resp.Body).Decode(&geo); err != nil {
		return 0, 0, "", err
	}
	if len(geo.Results) == 0 {
		return 0, 0, "", fmt.Errorf("no results for %q", query)
	}

	first := geo.Results[0]
	name := first.Name
	if first.Admin1 != "" {
		name = first.Name + ", " + first.Admin1
	}
	return first.Latitude, first.Longitude, name, nil
}

// parseHour extracts the hour from strings like "3:30 PM", "10:00 AM"
// or "14:00". Defaults to noon when no hour can be read.
func parseHour(timeStr string) int {
	lower := strings.ToLower(timeStr)
	isPM := strings.Contains(lower, "pm") || strings.Contains(lower, "p.m.")
	isAM := strings.Contains(lower, "am") || strings.Contains(lower, "a.m.")

	fields := strings.FieldsFunc(lower, func(r rune) bool { return r < '0' || r > '9' })
	if len(fields) == 0 {
		return 12
	}

	hour, err := strconv.Atoi(fields[0])
	if err != nil {
		return 12
	}
	if isPM && hour < 12 {
		hour += 12
	} else if isAM && hour == 12 {
		hour = 0
	}
	if hour < 0 || hour > 23 {
		return 12
	}
	return hour
}

func describeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "Clear sky"
	case code >= 1 && code <= 3:
		return "Partly cloudy"
	case code == 45 || code == 48:
		return "Foggy"
	case code >= 51 && code <= 55:
		return "Drizzle"
	case code == 56 || code == 57:
		return "Freezing Drizzle"
	case code >= 61 && code <= 65:
		return "Rain"
	case code == 66 || code == 67:
		return "Freezing Rain"
	case code >= 71 && code <= 75:
		return "Snow"
	case code == 77:
		return "Snow grains"
	case code >= 80 && code <= 82:
		return "Rain showers"
	case code == 85 || code == 86:
		return "Snow showers"
	case code == 95:
		return "Thunderstorm"
	case code == 96 || code == 99:
		return "Thunderstorm with hail"
	default:
		return "Unknown"
	}
}
