package services

import (
	"context"
	"log"
	"time"

	"rental-backend/models"

	"gorm.io/gorm"
)

// SyncResult reports what one reconciliation did to stored events.
type SyncResult struct {
	FeedID        uint `json:"feedId"`
	EventsFound   int  `json:"eventsFound"`
	Inserted      int  `json:"inserted"`
	Updated       int  `json:"updated"`
	Deleted       int  `json:"deleted"`
	SkippedDelete bool `json:"skippedDelete,omitempty"`
}

// SyncService pulls external feeds and reconciles them against stored
// calendar events.
type SyncService struct {
	db     *gorm.DB
	client *FeedClient
}

func NewSyncService(db *gorm.DB) *SyncService {
	return &SyncService{db: db, client: NewFeedClient()}
}

// SyncFeed fetches a feed, parses it, and reconciles the result. Sync status
// and error text are recorded on the feed row either way.
func (s *SyncService) SyncFeed(ctx context.Context, feedID uint) (*SyncResult, error) {
	var feed models.CalendarFeed
	if err := s.db.First(&feed, feedID).Error; err != nil {
		return nil, err
	}

	if err := s.updateSyncStatus(feed.ID, models.SyncStatusSyncing, ""); err != nil {
		log.Printf("failed to update sync status for feed %d: %v", feed.ID, err)
	}

	body, err := s.client.FetchFeed(ctx, feed.URL)
	if err != nil {
		s.updateSyncStatus(feed.ID, models.SyncStatusError, err.Error())
		return nil, err
	}

	events, err := ParseFeed(body, feed.Source)
	if err != nil {
		s.updateSyncStatus(feed.ID, models.SyncStatusError, err.Error())
		return nil, err
	}

	result, err := s.ReconcileEvents(&feed, events)
	if err != nil {
		s.updateSyncStatus(feed.ID, models.SyncStatusError, err.Error())
		return nil, err
	}

	if result.SkippedDelete {
		// An empty feed would wipe every stored event; far more likely a
		// transient/partial response than a real mass cancellation.
		s.updateSyncStatus(feed.ID, models.SyncStatusError, "feed returned no events; delete phase skipped")
	} else {
		s.updateSyncStatus(feed.ID, models.SyncStatusSuccess, "")
	}

	return result, nil
}

// ReconcileEvents diffs fetched events against stored rows for the feed:
// update rows whose external id pre-existed, insert new ones, delete rows
// absent from the fetch. The whole read-diff-write sequence runs in one
// transaction so overlapping syncs cannot interleave half-applied states.
func (s *SyncService) ReconcileEvents(feed *models.CalendarFeed, events []FeedEvent) (*SyncResult, error) {
	result := &SyncResult{FeedID: feed.ID, EventsFound: len(events)}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing []models.CalendarEvent
		if err := tx.Where("feed_id = ?", feed.ID).Find(&existing).Error; err != nil {
			return err
		}

		existingByExternalID := make(map[string]models.CalendarEvent, len(existing))
		for _, e := range existing {
			existingByExternalID[e.ExternalID] = e
		}

		fetchedIDs := make(map[string]bool, len(events))
		for _, ev := range events {
			fetchedIDs[ev.ExternalID] = true

			if row, ok := existingByExternalID[ev.ExternalID]; ok {
				updates := map[string]interface{}{
					"title":          ev.Title,
					"start_date":     ev.Start,
					"end_date":       ev.End,
					"guest_name":     ev.GuestName,
					"guest_count":    ev.GuestCount,
					"booking_status": ev.Status,
				}
				if err := tx.Model(&models.CalendarEvent{}).Where("id = ?", row.ID).Updates(updates).Error; err != nil {
					return err
				}
				result.Updated++
				continue
			}

			row := models.CalendarEvent{
				FeedID:        feed.ID,
				PropertyID:    feed.PropertyID,
				ExternalID:    ev.ExternalID,
				Title:         ev.Title,
				StartDate:     ev.Start,
				EndDate:       ev.End,
				GuestName:     ev.GuestName,
				GuestCount:    ev.GuestCount,
				BookingStatus: ev.Status,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			result.Inserted++
		}

		if len(events) == 0 && len(existing) > 0 {
			result.SkippedDelete = true
			return nil
		}

		for externalID, row := range existingByExternalID {
			if fetchedIDs[externalID] {
				continue
			}
			if err := tx.Delete(&models.CalendarEvent{}, row.ID).Error; err != nil {
				return err
			}
			result.Deleted++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *SyncService) updateSyncStatus(feedID uint, status, errText string) error {
	updates := map[string]interface{}{
		"last_sync_status": status,
		"last_sync_error":  errText,
	}
	if status == models.SyncStatusSuccess || status == models.SyncStatusError {
		updates["last_sync_at"] = time.Now().UTC()
	}
	return s.db.Model(&models.CalendarFeed{}).Where("id = ?", feedID).Updates(updates).Error
}
