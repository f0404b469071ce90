package services

import (
	"sync"
	"time"

	"gorm.io/gorm"

	"moneta/internal/logger"
	"moneta/internal/models"
)

// ThrottleConfig holds the knobs for login throttling.
type ThrottleConfig struct {
	// MaxFailures is the number of failed attempts within Window that
	// triggers a ban.
	MaxFailures int
	// Window is the trailing interval over which failures are counted.
	Window time.Duration
	// BanDuration is how long a created ban lasts.
	BanDuration time.Duration
}

// banRecord marks when a ban started and how long it lasts.
type banRecord struct {
	start    time.Time
	duration time.Duration
}

// throttleService tracks failed login attempts per IP and enforces
// temporary bans. Attempts are durably appended to the login_attempts
// table; the ban table itself is process-local and cleared on restart.
type throttleService struct {
	db  *gorm.DB
	cfg ThrottleConfig
	now func() time.Time

	mu   sync.Mutex
	bans map[string]banRecord
}

// NewThrottleService creates a new ThrottleServicer.
func NewThrottleService(db *gorm.DB, cfg ThrottleConfig) ThrottleServicer {
	return &throttleService{
		db:   db,
		cfg:  cfg,
		now:  time.Now,
		bans: make(map[string]banRecord),
	}
}

// Check reports whether the IP has an active ban and how long it has left.
// An expired ban is discarded on first check after expiry.
func (s *throttleService) Check(ip string) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.bans[ip]
	if !ok {
		return 0, false
	}

	elapsed := s.now().Sub(rec.start)
	if elapsed >= rec.duration {
		delete(s.bans, ip)
		return 0, false
	}

	return rec.duration - elapsed, true
}

// RecordAttempt appends a login attempt for the IP. On failure, it counts
// the failed attempts within the trailing window and creates a ban once the
// threshold is reached. Bookkeeping failures are logged but never surfaced:
// they must not block a login.
func (s *throttleService) RecordAttempt(ip, username string, success bool) {
	attempt := &models.LoginAttempt{
		IPAddress: ip,
		Username:  username,
		Success:   success,
		CreatedAt: s.now(),
	}
	if err := s.db.Create(attempt).Error; err != nil {
		logger.Get().Errorw("failed to record login attempt", "error", err, "ip", ip)
		return
	}

	if success {
		return
	}

	cutoff := s.now().Add(-s.cfg.Window)
	var failures int64
	err := s.db.Model(&models.LoginAttempt{}).
		Where("ip_address = ? AND success = ? AND created_at >= ?", ip, false, cutoff).
		Count(&failures).Error
	if err != nil {
		logger.Get().Errorw("failed to count login attempts", "error", err, "ip", ip)
		return
	}

	if failures >= int64(s.cfg.MaxFailures) {
		s.mu.Lock()
		s.bans[ip] = banRecord{start: s.now(), duration: s.cfg.BanDuration}
		s.mu.Unlock()
		logger.Get().Warnw("IP banned after repeated login failures",
			"ip", ip,
			"failures", failures,
			"ban_duration", s.cfg.BanDuration,
		)
	}
}
