package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"qr-attendance/internal/models"
	"qr-attendance/internal/repository"
)

// BotNotifier defines the interface for bot notifications
type BotNotifier interface {
	SendNotification(message string)
}

const (
	// ScanCooldown is the minimum interval between two accepted scans for
	// the same email.
	ScanCooldown = 2 * time.Second
	// FeedbackTTL is how long scan feedback stays visible unless superseded.
	FeedbackTTL = 2 * time.Second
)

// Feedback messages shown to the scanner operator.
const (
	msgInvalidJSON   = "Invalid QR data (not JSON)"
	msgMissingFields = "QR data missing email or name"
)

// isoMillis matches the original record format: UTC with milliseconds.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// ScanPipeline consumes decoded QR text, validates the payload, applies a
// per-email cool-down, writes attendance records and emits transient
// feedback. The scanner session generation is bumped after every processed
// event to guard against re-triggering on the same physical code.
type ScanPipeline struct {
	repo     repository.AttendanceRepository
	notifier BotNotifier // optional, late check-in alerts

	mu          sync.Mutex
	lastScan    map[string]int64 // email -> epoch ms of last accepted scan
	generation  int
	feedback    *models.Feedback
	feedbackSeq int

	cooldown    time.Duration
	feedbackTTL time.Duration
	now         func() time.Time
}

// NewScanPipeline creates a scan pipeline. notifier may be nil.
func NewScanPipeline(repo repository.AttendanceRepository, notifier BotNotifier) *ScanPipeline {
	return &ScanPipeline{
		repo:        repo,
		notifier:    notifier,
		lastScan:    make(map[string]int64),
		cooldown:    ScanCooldown,
		feedbackTTL: FeedbackTTL,
		now:         time.Now,
	}
}

// HandleScan processes one decoded-text event from the QR decode engine.
func (p *ScanPipeline) HandleScan(ctx context.Context, rawText string) {
	p.clearFeedback()

	var payload models.ScanPayload
	if err := json.Unmarshal([]byte(rawText), &payload); err != nil {
		p.setFeedback(models.FeedbackError, msgInvalidJSON)
		p.restartScanner()
		return
	}
	if payload.Email == "" || payload.Name == "" {
		p.setFeedback(models.FeedbackError, msgMissingFields)
		p.restartScanner()
		return
	}

	now := p.now()
	nowMs := now.UnixMilli()

	p.mu.Lock()
	last := p.lastScan[payload.Email]
	if nowMs-last < p.cooldown.Milliseconds() {
		// Deliberate silent drop: no write, no feedback.
		p.generation++
		p.mu.Unlock()
		return
	}
	// Optimistic stamp: the window is consumed even if the write fails.
	p.lastScan[payload.Email] = nowMs
	p.mu.Unlock()

	iso := now.UTC().Format(isoMillis)
	record := &models.AttendanceRecord{
		Name:      payload.Name,
		Email:     payload.Email,
		Date:      iso,
		Timestamp: iso,
	}

	if err := p.repo.Create(ctx, record); err != nil {
		log.Printf("❌ Failed to save attendance for %s: %v", payload.Email, err)
		p.setFeedback(models.FeedbackError, "Failed to save attendance: "+err.Error())
	} else {
		log.Printf("✅ Attendance recorded for %s (%s)", payload.Name, payload.Email)
		p.setFeedback(models.FeedbackSuccess, fmt.Sprintf("Attendance recorded for %s", payload.Name))
		p.notifyIfLate(record)
	}
	p.restartScanner()
}

// HandleScanError processes a decode-engine error (camera or permission
// failure). No code was decoded, so the scanner session is not restarted.
func (p *ScanPipeline) HandleScanError(reason string) {
	p.setFeedback(models.FeedbackError, "Scan error: "+reason)
}

// Feedback returns the current transient feedback, or nil.
func (p *ScanPipeline) Feedback() *models.Feedback {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.feedback == nil {
		return nil
	}
	fb := *p.feedback
	return &fb
}

// Generation returns the scanner session token. It changes after every
// processed scan event; consumers re-key the decode session on change.
func (p *ScanPipeline) Generation() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generation
}

func (p *ScanPipeline) restartScanner() {
	p.mu.Lock()
	p.generation++
	p.mu.Unlock()
}

func (p *ScanPipeline) setFeedback(kind models.FeedbackKind, message string) {
	p.mu.Lock()
	p.feedbackSeq++
	seq := p.feedbackSeq
	p.feedback = &models.Feedback{Kind: kind, Message: message}
	p.mu.Unlock()

	time.AfterFunc(p.feedbackTTL, func() {
		p.mu.Lock()
		if p.feedbackSeq == seq {
			p.feedback = nil
		}
		p.mu.Unlock()
	})
}

func (p *ScanPipeline) clearFeedback() {
	p.mu.Lock()
	p.feedbackSeq++
	p.feedback = nil
	p.mu.Unlock()
}

func (p *ScanPipeline) notifyIfLate(record *models.AttendanceRecord) {
	if p.notifier == nil || !IsLate(record.Timestamp) {
		return
	}
	t, err := time.Parse(time.RFC3339, record.Timestamp)
	if err != nil {
		return
	}
	p.notifier.SendNotification(fmt.Sprintf(
		"⚠️ Late check-in\n👤 %s (%s)\n🕐 %s",
		record.Name, record.Email, t.In(ManilaLocation()).Format("15:04:05"),
	))
}
