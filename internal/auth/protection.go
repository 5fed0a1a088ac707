package auth

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	maxTrackedIPs   = 10000
	maxLockout      = 24 * time.Hour
	cleanupInterval = 10 * time.Minute
)

// limiterCache hands out one token bucket per key.
type limiterCache struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

func newLimiterCache(rps float64, burst int) *limiterCache {
	return &limiterCache{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (lc *limiterCache) get(key string) *rate.Limiter {
	lc.mu.RLock()
	limiter, exists := lc.limiters[key]
	lc.mu.RUnlock()
	if exists {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()
	if limiter, exists = lc.limiters[key]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

func (lc *limiterCache) clearIfExceeds(maxSize int) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if len(lc.limiters) > maxSize {
		lc.limiters = make(map[string]*rate.Limiter)
		return true
	}
	return false
}

type loginAttempt struct {
	count       int
	firstFailed time.Time
	lockedUntil time.Time
	lockouts    int
}

type ProtectionConfig struct {
	IPRateLimit       float64
	IPBurst           int
	MaxFailedAttempts int
	// LockoutDuration doubles with every repeated lockout of the same account.
	LockoutDuration time.Duration
	AttemptWindow   time.Duration
}

// LoginProtection combines a per-IP rate limit with per-email lockout.
type LoginProtection struct {
	ipLimiters *limiterCache

	failedAttempts map[string]*loginAttempt
	attemptsMu     sync.Mutex

	cfg ProtectionConfig
	log *zap.Logger
	now func() time.Time
}

func NewLoginProtection(cfg ProtectionConfig, log *zap.Logger) *LoginProtection {
	if cfg.IPRateLimit <= 0 {
		cfg.IPRateLimit = 0.5
	}
	if cfg.IPBurst <= 0 {
		cfg.IPBurst = 5
	}
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = 5
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 15 * time.Minute
	}
	if cfg.AttemptWindow <= 0 {
		cfg.AttemptWindow = cfg.LockoutDuration
	}
	return &LoginProtection{
		ipLimiters:     newLimiterCache(cfg.IPRateLimit, cfg.IPBurst),
		failedAttempts: make(map[string]*loginAttempt),
		cfg:            cfg,
		log:            log,
		now:            time.Now,
	}
}

// AllowIP consumes one token from the caller's bucket.
func (lp *LoginProtection) AllowIP(ip string) bool {
	return lp.ipLimiters.get(ip).Allow()
}

// Locked reports whether email is inside a lockout window.
func (lp *LoginProtection) Locked(email string) (bool, time.Duration) {
	lp.attemptsMu.Lock()
	defer lp.attemptsMu.Unlock()

	attempt, ok := lp.failedAttempts[email]
	if !ok {
		return false, 0
	}
	if remaining := attempt.lockedUntil.Sub(lp.now()); remaining > 0 {
		return true, remaining
	}
	return false, 0
}

// RecordFailure counts a failed attempt and reports whether it triggered a lockout.
func (lp *LoginProtection) RecordFailure(email string) bool {
	lp.attemptsMu.Lock()
	defer lp.attemptsMu.Unlock()

	now := lp.now()
	attempt, ok := lp.failedAttempts[email]
	if !ok {
		attempt = &loginAttempt{}
		lp.failedAttempts[email] = attempt
	}
	if attempt.count == 0 || now.Sub(attempt.firstFailed) > lp.cfg.AttemptWindow {
		attempt.count = 0
		attempt.firstFailed = now
	}
	attempt.count++

	if attempt.count < lp.cfg.MaxFailedAttempts {
		return false
	}

	lockFor := lp.cfg.LockoutDuration
	for i := 0; i < attempt.lockouts && lockFor < maxLockout; i++ {
		lockFor *= 2
	}
	if lockFor > maxLockout {
		lockFor = maxLockout
	}
	attempt.lockedUntil = now.Add(lockFor)
	attempt.lockouts++
	attempt.count = 0

	lp.log.Warn("account locked after failed logins",
		zap.String("email", email),
		zap.Int("lockouts", attempt.lockouts),
		zap.Duration("duration", lockFor),
	)
	return true
}

func (lp *LoginProtection) RecordSuccess(email string) {
	lp.attemptsMu.Lock()
	delete(lp.failedAttempts, email)
	lp.attemptsMu.Unlock()
}

// Run prunes stale state until ctx is done.
func (lp *LoginProtection) Run(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			lp.prune()
		}
	}
}

func (lp *LoginProtection) prune() {
	if lp.ipLimiters.clearIfExceeds(maxTrackedIPs) {
		lp.log.Info("cleared login rate limiters")
	}

	now := lp.now()
	lp.attemptsMu.Lock()
	for email, attempt := range lp.failedAttempts {
		if now.After(attempt.lockedUntil) && now.Sub(attempt.firstFailed) > lp.cfg.AttemptWindow {
			delete(lp.failedAttempts, email)
		}
	}
	lp.attemptsMu.Unlock()
}
