package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"rental-backend/models"
)

const feedUserAgent = "rental-backend-calendar-sync/1.0"

// FeedEvent is the normalized representation of one VEVENT from an external
// calendar feed.
type FeedEvent struct {
	ExternalID string
	Title      string
	Start      time.Time
	End        time.Time
	GuestName  string
	GuestCount int
	Status     string // "reserved" or "blocked"
}

// FeedClient fetches and parses external iCal feeds.
type FeedClient struct {
	httpClient *http.Client
}

func NewFeedClient() *FeedClient {
	return &FeedClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchFeed downloads the raw .ics payload. No retry; callers surface the
// error and leave stored events untouched.
func (f *FeedClient) FetchFeed(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", feedUserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

var (
	// Airbnb export summaries look like "Reserved - John Smith" or
	// "Airbnb (Not available)".
	airbnbReservedRe = regexp.MustCompile(`(?i)^Reserved\s*-\s*(.+)$`)

	// VRBO and Booking.com put the guest behind a label in DESCRIPTION.
	descGuestRe = regexp.MustCompile(`(?im)^(?:Guest|Name):\s*(.+)$`)

	// Guest count heuristics, tried in order; first match wins.
	guestCountRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s+guests?`),
		regexp.MustCompile(`(?i)guests?:\s*(\d+)`),
		regexp.MustCompile(`(?i)(\d+)\s+adults?`),
		regexp.MustCompile(`(?i)adults?:\s*(\d+)`),
	}

	blockedSummaryRe = regexp.MustCompile(`(?i)not\s+available|blocked|unavailable`)
)

// ParseFeed parses an .ics payload into normalized events. Events without a
// UID or dates are skipped; guest name/count extraction degrades to empty
// fields rather than failing the event.
func ParseFeed(body []byte, source string) ([]FeedEvent, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	events := make([]FeedEvent, 0)
	for _, ve := range cal.Events() {
		uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
		if uidProp == nil || uidProp.Value == "" {
			continue
		}

		start, err := ve.GetStartAt()
		if err != nil {
			start = parseFallbackDate(ve.GetProperty(ical.ComponentPropertyDtStart))
		}
		end, err := ve.GetEndAt()
		if err != nil {
			end = parseFallbackDate(ve.GetProperty(ical.ComponentPropertyDtEnd))
		}
		if start.IsZero() || end.IsZero() {
			continue
		}

		summary := propValue(ve, ical.ComponentPropertySummary)
		description := propValue(ve, ical.ComponentPropertyDescription)

		ev := FeedEvent{
			ExternalID: uidProp.Value,
			Title:      summary,
			Start:      start,
			End:        end,
			GuestName:  extractGuestName(summary, description, source),
			GuestCount: extractGuestCount(summary + "\n" + description),
			Status:     "reserved",
		}
		if blockedSummaryRe.MatchString(summary) {
			ev.Status = "blocked"
			ev.GuestName = ""
		}

		events = append(events, ev)
	}

	return events, nil
}

func propValue(ve *ical.VEvent, name ical.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return unescapeText(p.Value)
	}
	return ""
}

func unescapeText(v string) string {
	v = strings.ReplaceAll(v, `\n`, "\n")
	v = strings.ReplaceAll(v, `\,`, ",")
	v = strings.ReplaceAll(v, `\;`, ";")
	v = strings.ReplaceAll(v, `\\`, `\`)
	return v
}

func extractGuestName(summary, description, source string) string {
	switch source {
	case models.SourceAirbnb:
		if m := airbnbReservedRe.FindStringSubmatch(summary); m != nil {
			return strings.TrimSpace(m[1])
		}
	default:
		if m := descGuestRe.FindStringSubmatch(description); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func extractGuestCount(text string) int {
	for _, re := range guestCountRes {
		if m := re.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n
			}
		}
	}
	return 0
}

// parseFallbackDate covers date-only DTSTART/DTEND values the library helpers
// reject.
func parseFallbackDate(p *ical.IANAProperty) time.Time {
	if p == nil {
		return time.Time{}
	}
	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
		"2006-01-02",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, p.Value); err == nil {
			return t
		}
	}
	return time.Time{}
}
