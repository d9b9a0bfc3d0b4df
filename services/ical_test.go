package services

import (
	"testing"

	"rental-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const airbnbFeed = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Airbnb Inc//Hosting Calendar 1.0//EN
BEGIN:VEVENT
DTSTART;VALUE=DATE:20260910
DTEND;VALUE=DATE:20260913
UID:1404d1e9-abc1@airbnb.com
SUMMARY:Reserved - John Smith
DESCRIPTION:Reservation URL: https://www.airbnb.com/hosting/reservations/de
 tails/HMABCDEF\n2 guests
END:VEVENT
BEGIN:VEVENT
DTSTART;VALUE=DATE:20260920
DTEND;VALUE=DATE:20260925
UID:1404d1e9-abc2@airbnb.com
SUMMARY:Airbnb (Not available)
END:VEVENT
END:VCALENDAR
`

const vrboFeed = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//HomeAway.com, Inc.//EN
BEGIN:VEVENT
DTSTART;VALUE=DATE:20261001
DTEND;VALUE=DATE:20261005
UID:vrbo-123456
SUMMARY:Reserved
DESCRIPTION:Guest: Maria Garcia\nAdults: 3
END:VEVENT
END:VCALENDAR
`

func TestParseFeedAirbnb(t *testing.T) {
	events, err := ParseFeed([]byte(airbnbFeed), models.SourceAirbnb)
	require.NoError(t, err)
	require.Len(t, events, 2)

	reserved := events[0]
	assert.Equal(t, "1404d1e9-abc1@airbnb.com", reserved.ExternalID)
	assert.Equal(t, "John Smith", reserved.GuestName)
	assert.Equal(t, 2, reserved.GuestCount)
	assert.Equal(t, "reserved", reserved.Status)
	assert.Equal(t, "2026-09-10", reserved.Start.Format(DateLayout))
	assert.Equal(t, "2026-09-13", reserved.End.Format(DateLayout))

	blocked := events[1]
	assert.Equal(t, "blocked", blocked.Status)
	assert.Empty(t, blocked.GuestName)
}

func TestParseFeedVrboGuestLabel(t *testing.T) {
	events, err := ParseFeed([]byte(vrboFeed), models.SourceOther)
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, "Maria Garcia", events[0].GuestName)
	assert.Equal(t, 3, events[0].GuestCount)
}

func TestParseFeedDegradesGracefully(t *testing.T) {
	feed := `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Test//EN
BEGIN:VEVENT
DTSTART;VALUE=DATE:20261101
DTEND;VALUE=DATE:20261103
UID:opaque-uid-1
SUMMARY:Busy
END:VEVENT
END:VCALENDAR
`
	events, err := ParseFeed([]byte(feed), models.SourceOther)
	require.NoError(t, err)
	require.Len(t, events, 1)

	// No guest heuristics match: fields stay empty, event still parses.
	assert.Empty(t, events[0].GuestName)
	assert.Zero(t, events[0].GuestCount)
	assert.Equal(t, "reserved", events[0].Status)
}

func TestParseFeedSkipsEventWithoutUID(t *testing.T) {
	feed := `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Test//EN
BEGIN:VEVENT
DTSTART;VALUE=DATE:20261101
DTEND;VALUE=DATE:20261103
SUMMARY:No UID here
END:VEVENT
BEGIN:VEVENT
DTSTART;VALUE=DATE:20261110
DTEND;VALUE=DATE:20261112
UID:kept-event
SUMMARY:Kept
END:VEVENT
END:VCALENDAR
`
	events, err := ParseFeed([]byte(feed), models.SourceOther)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "kept-event", events[0].ExternalID)
}

func TestParseFeedMalformed(t *testing.T) {
	_, err := ParseFeed([]byte("this is not an ics feed"), models.SourceOther)
	assert.Error(t, err)
}

func TestExtractGuestCountPatternOrder(t *testing.T) {
	// "N guests" wins over a later "Guests:" label.
	assert.Equal(t, 4, extractGuestCount("4 guests\nGuests: 9"))
	assert.Equal(t, 2, extractGuestCount("Guests: 2"))
	assert.Equal(t, 3, extractGuestCount("Adults: 3"))
	assert.Zero(t, extractGuestCount("no numbers here"))
}
