package services

import (
	"time"

	"rental-backend/models"

	"gorm.io/gorm"
)

const DateLayout = "2006-01-02"

// checkout-window scan horizon, in days past check-in
const checkoutWindowDays = 30

// BlockedDateMap marks every night covered by a reservation or synced
// calendar event in [from, to). A stay [checkIn, checkOut) blocks
// checkIn..checkOut-1; the checkout day itself stays open for a same-day
// turnover check-in.
func BlockedDateMap(db *gorm.DB, propertyID uint, from, to time.Time) (map[string]bool, error) {
	blocked := make(map[string]bool)

	var reservations []models.Reservation
	err := db.Where("property_id = ? AND status <> ? AND check_in < ? AND check_out > ?",
		propertyID, models.ReservationStatusCancelled, to, from).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	for _, r := range reservations {
		markRange(blocked, r.CheckIn, r.CheckOut, from, to)
	}

	var events []models.CalendarEvent
	err = db.Where("property_id = ? AND start_date < ? AND end_date > ?",
		propertyID, to, from).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		markRange(blocked, e.StartDate, e.EndDate, from, to)
	}

	return blocked, nil
}

func markRange(blocked map[string]bool, start, end, from, to time.Time) {
	d := dateOnly(start)
	stop := dateOnly(end) // exclusive: checkout day not blocked
	for d.Before(stop) {
		if !d.Before(dateOnly(from)) && d.Before(dateOnly(to)) {
			blocked[d.Format(DateLayout)] = true
		}
		d = d.AddDate(0, 0, 1)
	}
}

// IsDateAvailable applies the day availability rule: today or later, and not
// blocked.
func IsDateAvailable(blocked map[string]bool, date, today time.Time) bool {
	d := dateOnly(date)
	if d.Before(dateOnly(today)) {
		return false
	}
	return !blocked[d.Format(DateLayout)]
}

// CheckoutWindow walks forward from the day after check-in for up to 30 days,
// collecting valid checkout dates. The first blocked date terminates the scan
// but is itself included as a final valid checkout, modeling a same-day
// turnover where the next guest arrives the day this one leaves.
func CheckoutWindow(blocked map[string]bool, checkIn time.Time) []string {
	var dates []string
	for i := 1; i <= checkoutWindowDays; i++ {
		d := dateOnly(checkIn).AddDate(0, 0, i)
		key := d.Format(DateLayout)
		dates = append(dates, key)
		if blocked[key] {
			break
		}
	}
	return dates
}

// CheckoutWindowForProperty loads the blocked map around check-in and runs the
// scan. Returns nil when check-in itself is in the past or blocked.
func CheckoutWindowForProperty(db *gorm.DB, propertyID uint, checkIn, today time.Time) ([]string, error) {
	from := dateOnly(checkIn)
	to := from.AddDate(0, 0, checkoutWindowDays+1)

	blocked, err := BlockedDateMap(db, propertyID, from, to)
	if err != nil {
		return nil, err
	}
	if !IsDateAvailable(blocked, checkIn, today) {
		return nil, nil
	}
	return CheckoutWindow(blocked, checkIn), nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
