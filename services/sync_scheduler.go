package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"rental-backend/models"

	"gorm.io/gorm"
)

// SyncScheduler runs periodic feed syncs, one cron entry per enabled feed.
type SyncScheduler struct {
	cron *cron.Cron
	sync *SyncService
	db   *gorm.DB

	jobs   map[uint]cron.EntryID
	jobsMu sync.Mutex

	defaultInterval time.Duration
}

func NewSyncScheduler(db *gorm.DB, syncService *SyncService, defaultIntervalMin int) *SyncScheduler {
	if defaultIntervalMin <= 0 {
		defaultIntervalMin = 30
	}
	return &SyncScheduler{
		cron:            cron.New(),
		sync:            syncService,
		db:              db,
		jobs:            make(map[uint]cron.EntryID),
		defaultInterval: time.Duration(defaultIntervalMin) * time.Minute,
	}
}

// Start loads enabled feeds, schedules them, and begins the cron loop. A
// refresh job every 5 minutes picks up feeds added or toggled after boot.
func (s *SyncScheduler) Start(ctx context.Context) error {
	var feeds []models.CalendarFeed
	if err := s.db.Where("enabled = ?", true).Find(&feeds).Error; err != nil {
		return err
	}

	for _, feed := range feeds {
		s.ScheduleFeed(feed)
	}

	if _, err := s.cron.AddFunc("@every 5m", func() {
		s.refreshSchedules()
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("calendar sync scheduler started with %d feeds", len(feeds))
	return nil
}

// Stop shuts the scheduler down, waiting for running jobs.
func (s *SyncScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("calendar sync scheduler stopped")
}

// ScheduleFeed adds or replaces the cron entry for a feed.
func (s *SyncScheduler) ScheduleFeed(feed models.CalendarFeed) {
	if !feed.Enabled {
		s.UnscheduleFeed(feed.ID)
		return
	}

	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	if existingID, ok := s.jobs[feed.ID]; ok {
		s.cron.Remove(existingID)
		delete(s.jobs, feed.ID)
	}

	interval := time.Duration(feed.SyncIntervalMinutes) * time.Minute
	if interval < time.Minute {
		interval = s.defaultInterval
	}

	feedID := feed.ID
	entryID, err := s.cron.AddFunc("@every "+interval.String(), func() {
		s.runSync(feedID)
	})
	if err != nil {
		log.Printf("failed to schedule feed %d: %v", feed.ID, err)
		return
	}

	s.jobs[feed.ID] = entryID
}

// UnscheduleFeed removes a feed's cron entry if present.
func (s *SyncScheduler) UnscheduleFeed(feedID uint) {
	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	if entryID, ok := s.jobs[feedID]; ok {
		s.cron.Remove(entryID)
		delete(s.jobs, feedID)
	}
}

// TriggerSync runs an immediate sync for a feed without waiting for its next
// scheduled slot.
func (s *SyncScheduler) TriggerSync(feedID uint) {
	go s.runSync(feedID)
}

func (s *SyncScheduler) runSync(feedID uint) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := s.sync.SyncFeed(ctx, feedID)
	if err != nil {
		log.Printf("feed %d sync failed: %v", feedID, err)
		return
	}
	log.Printf("feed %d synced: %d events, %d inserted, %d updated, %d deleted",
		feedID, result.EventsFound, result.Inserted, result.Updated, result.Deleted)
}

func (s *SyncScheduler) refreshSchedules() {
	var feeds []models.CalendarFeed
	if err := s.db.Where("enabled = ?", true).Find(&feeds).Error; err != nil {
		log.Printf("failed to refresh feed schedules: %v", err)
		return
	}

	current := make(map[uint]bool, len(feeds))
	for _, feed := range feeds {
		current[feed.ID] = true
		s.ScheduleFeed(feed)
	}

	s.jobsMu.Lock()
	for feedID, entryID := range s.jobs {
		if !current[feedID] {
			s.cron.Remove(entryID)
			delete(s.jobs, feedID)
		}
	}
	s.jobsMu.Unlock()
}
