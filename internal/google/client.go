// Package google talks to the Google Sheets API and the team's
// published calendar feed.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dugout-labs/teambot/internal/config"
	"github.com/dugout-labs/teambot/pkg/logger"
	"github.com/dugout-labs/teambot/pkg/metrics"
)

// SheetRow is one schedule row from the spreadsheet (range A2:I).
type SheetRow struct {
	Date        time.Time
	Time        string
	Location    string
	HomeTeam    string
	Snacks      string
	Livestream  string
	Scoreboard  string
	PitchCount  string
	Gamechanger string
}

// CalendarEvent is one event from the published calendar feed.
type CalendarEvent struct {
	Date    time.Time
	Summary string
}

type sheetsResponse struct {
	Values [][]string `json:"values"`
}

// Client fetches schedule data from Google Sheets and the calendar
// feed, and writes volunteer assignments back to the sheet.
type Client struct {
	client *http.Client
	cfg    *config.Config
	auth   *ServiceAccountAuth
	log    *logger.Logger

	mu      sync.Mutex
	lastErr error
}

// NewClient builds a Client. When a service account key is configured
// it is used for both reads and writes; otherwise the API key is used
// and the sheet is read-only.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	var auth *ServiceAccountAuth
	if cfg.ServiceAccountFile != "" {
		a, err := NewServiceAccountAuth(cfg.ServiceAccountFile)
		if err != nil {
			log.Warn("failed to initialize service account auth", zap.Error(err))
		} else {
			log.Info("service account authentication initialized")
			auth = a
		}
	} else {
		log.Info("using API key authentication (read-only)")
	}

	return &Client{
		client: &http.Client{Timeout: 15 * time.Second},
		cfg:    cfg,
		auth:   auth,
		log:    log,
	}
}

// Ready reports whether the most recent schedule fetch succeeded.
// Before the first fetch it reports healthy.
func (c *Client) Ready(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// SheetData fetches and parses the schedule rows, sorted by date.
// Rows with a blank or unparseable date are skipped.
func (c *Client) SheetData(ctx context.Context) ([]SheetRow, error) {
	rows, err := c.fetchSheetData(ctx)
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
	return rows, err
}

func (c *Client) fetchSheetData(ctx context.Context) ([]SheetRow, error) {
	var (
		resp *http.Response
		err  error
	)

	if c.auth != nil {
		token, tokenErr := c.auth.AccessToken(ctx)
		if tokenErr != nil {
			metrics.ScheduleFetchesTotal.WithLabelValues("sheets", "error").Inc()
			return nil, tokenErr
		}

		u := fmt.Sprintf("https://sheets.googleapis.com/v4/spreadsheets/%s/values/A2:I", c.cfg.SheetID)
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if reqErr != nil {
			return nil, reqErr
		}
		req.Header.Set("Authorization", "Bearer "+token)

		c.log.Debug("fetching sheet data", zap.String("auth", "service_account"))
		resp, err = c.client.Do(req)
	} else {
		u := fmt.Sprintf("https://sheets.googleapis.com/v4/spreadsheets/%s/values/A2:I?key=%s",
			c.cfg.SheetID, url.QueryEscape(c.cfg.GoogleAPIKey))
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if reqErr != nil {
			return nil, reqErr
		}

		c.log.Debug("fetching sheet data", zap.String("auth", "api_key"))
		resp, err = c.client.Do(req)
	}
	if err != nil {
		metrics.ScheduleFetchesTotal.WithLabelValues("sheets", "error").Inc()
		return nil, fmt.Errorf("sheets request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		metrics.ScheduleFetchesTotal.WithLabelValues("sheets", "error").Inc()
		return nil, fmt.Errorf("sheets API returned %s: %s", resp.Status, string(body))
	}

	var sheets sheetsResponse
	if err := json.NewDecoder(resp.Body).Decode(&sheets); err != nil {
		metrics.ScheduleFetchesTotal.WithLabelValues("sheets", "error").Inc()
		return nil, fmt.Errorf("failed to decode sheets response: %w", err)
	}

	rows := make([]SheetRow, 0, len(sheets.Values))
	for i, row := range sheets.Values {
		if len(row) < 4 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		date, err := time.ParseInLocation("2006-01-02", row[0], time.UTC)
		if err != nil {
			c.log.Warn("failed to parse date in sheet row",
				zap.Int("row", i+2), zap.String("value", row[0]))
			continue
		}
		rows = append(rows, SheetRow{
			Date:        date,
			Time:        cell(row, 1),
			Location:    cell(row, 2),
			HomeTeam:    cell(row, 3),
			Snacks:      cell(row, 4),
			Livestream:  cell(row, 5),
			Scoreboard:  cell(row, 6),
			PitchCount:  cell(row, 7),
			Gamechanger: cell(row, 8),
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })

	metrics.ScheduleFetchesTotal.WithLabelValues("sheets", "success").Inc()
	c.log.Info("sheet data retrieved", zap.Int("rows", len(rows)))
	return rows, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// UpdateCell writes a single cell in the sheet. Requires service
// account authentication.
func (c *Client) UpdateCell(ctx context.Context, row int, column, value string) error {
	if c.auth == nil {
		return fmt.Errorf("write operations require service account authentication")
	}

	token, err := c.auth.AccessToken(ctx)
	if err != nil {
		return err
	}

	cellRange := fmt.Sprintf("%s%d:%s%d", column, row, column, row)
	u := fmt.Sprintf("https://sheets.googleapis.com/v4/spreadsheets/%s/values/%s?valueInputOption=RAW",
		c.cfg.SheetID, url.QueryEscape(cellRange))

	payload, err := json.Marshal(map[string][][]string{
		"values": {{value}},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, strings.NewReader(string(payload)))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	c.log.Info("updating sheet cell",
		zap.String("range", cellRange), zap.String("value", value))

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sheet update failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sheet update returned %s: %s", resp.Status, string(body))
	}
	return nil
}

// FindRowByDate returns the 1-indexed sheet row holding the given
// date, or 0 when no row matches. Data rows start at row 2.
func (c *Client) FindRowByDate(ctx context.Context, target time.Time) (int, error) {
	rows, err := c.SheetData(ctx)
	if err != nil {
		return 0, err
	}
	for i, row := range rows {
		if row.Date.Equal(target) {
			return i + 2, nil
		}
	}
	return 0, nil
}

// volunteerColumns maps role names to their sheet columns.
var volunteerColumns = map[string]string{
	"snacks":      "E",
	"livestream":  "F",
	"scoreboard":  "G",
	"pitchcount":  "H",
	"pitch_count": "H",
	"gamechanger": "I",
}

// UpdateVolunteerAssignment writes a volunteer's name into the role
// column for the row matching date.
func (c *Client) UpdateVolunteerAssignment(ctx context.Context, date time.Time, role, person string) error {
	row, err := c.FindRowByDate(ctx, date)
	if err != nil {
		return err
	}
	if row == 0 {
		return fmt.Errorf("no event found for %s", date.Format("2006-01-02"))
	}

	column, ok := volunteerColumns[strings.ToLower(role)]
	if !ok {
		return fmt.Errorf("invalid volunteer role: %s", role)
	}

	return c.UpdateCell(ctx, row, column, person)
}

// CalendarEvents fetches the published webcal feed and returns its
// events. Returns an empty slice when no feed is configured.
func (c *Client) CalendarEvents(ctx context.Context) ([]CalendarEvent, error) {
	if c.cfg.CalendarWebcalURL == "" {
		return nil, nil
	}

	feedURL := strings.Replace(c.cfg.CalendarWebcalURL, "webcal://", "https://", 1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ScheduleFetchesTotal.WithLabelValues("calendar", "error").Inc()
		return nil, fmt.Errorf("calendar feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		metrics.ScheduleFetchesTotal.WithLabelValues("calendar", "error").Inc()
		return nil, fmt.Errorf("calendar feed returned %s: %s", resp.Status, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	events := parseICS(string(body))
	metrics.ScheduleFetchesTotal.WithLabelValues("calendar", "success").Inc()
	c.log.Info("calendar events retrieved", zap.Int("events", len(events)))
	return events, nil
}

// parseICS pulls DTSTART dates and SUMMARY lines out of an iCalendar
// feed. Only the civil date portion of DTSTART is used.
func parseICS(feed string) []CalendarEvent {
	var (
		events  []CalendarEvent
		current CalendarEvent
		inEvent bool
	)

	lines := strings.Split(strings.ReplaceAll(feed, "\r\n", "\n"), "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		// Unfold continuation lines
		for i+1 < len(lines) && (strings.HasPrefix(lines[i+1], " ") || strings.HasPrefix(lines[i+1], "\t")) {
			line += strings.TrimLeft(lines[i+1], " \t")
			i++
		}

		switch {
		case line == "BEGIN:VEVENT":
			inEvent = true
			current = CalendarEvent{}
		case line == "END:VEVENT":
			if inEvent && !current.Date.IsZero() {
				events = append(events, current)
			}
			inEvent = false
		case inEvent && strings.HasPrefix(line, "DTSTART"):
			if idx := strings.Index(line, ":"); idx >= 0 {
				value := line[idx+1:]
				if len(value) >= 8 {
					if date, err := time.ParseInLocation("20060102", value[:8], time.UTC); err == nil {
						current.Date = date
					}
				}
			}
		case inEvent && strings.HasPrefix(line, "SUMMARY:"):
			current.Summary = unescapeICS(strings.TrimPrefix(line, "SUMMARY:"))
		}
	}
	return events
}

func unescapeICS(s string) string {
	r := strings.NewReplacer(`\,`, ",", `\;`, ";", `\n`, "\n", `\\`, `\`)
	return r.Replace(s)
}
