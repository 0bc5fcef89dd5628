package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/sahilchouksey/study-planner/utils/cache"
	"github.com/sahilchouksey/study-planner/utils/response"
)

// attemptWindow is how long failed logins from one IP are remembered
const attemptWindow = 15 * time.Minute

// lockout is applied once failures within the window reach threshold
type lockout struct {
	threshold int64
	duration  time.Duration
}

// lockouts is ordered from harshest to mildest
var lockouts = []lockout{
	{threshold: 25, duration: 24 * time.Hour},
	{threshold: 10, duration: time.Hour},
	{threshold: 5, duration: 2 * time.Minute},
}

// lockoutFor returns the lock to apply after attempts failures, or zero
func lockoutFor(attempts int64) time.Duration {
	for _, l := range lockouts {
		if attempts >= l.threshold {
			return l.duration
		}
	}
	return 0
}

// BruteForceProtection locks out IPs that keep failing to log in. Counters
// live in Redis. A nil *BruteForceProtection is valid and never blocks.
type BruteForceProtection struct {
	redisCache *cache.RedisCache
}

// NewBruteForceProtection creates a new brute force protection instance
func NewBruteForceProtection(redisCache *cache.RedisCache) *BruteForceProtection {
	return &BruteForceProtection{redisCache: redisCache}
}

func attemptKey(ip string) string { return "login:attempts:" + ip }
func lockKey(ip string) string    { return "login:lock:" + ip }

// CheckAndRecordAttempt rejects logins from a locked IP with 429
func (b *BruteForceProtection) CheckAndRecordAttempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if b == nil {
			return c.Next()
		}

		ip := c.IP()
		locked, err := b.redisCache.Exists(c.UserContext(), lockKey(ip))
		if err != nil {
			// Redis outages never lock anyone out
			log.Warnf("brute force: lock lookup for %s failed: %v", ip, err)
			return c.Next()
		}
		if !locked {
			return c.Next()
		}

		retryAfter := 60
		if ttl, err := b.redisCache.TTL(c.UserContext(), lockKey(ip)); err == nil && ttl > 0 {
			retryAfter = int(ttl.Seconds())
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		return response.TooManyRequests(c, fmt.Sprintf("Too many failed attempts. Try again in %d seconds", retryAfter))
	}
}

// RecordFailedAttempt counts a failed login and locks the IP when a
// threshold is crossed
func (b *BruteForceProtection) RecordFailedAttempt(c *fiber.Ctx, ip string) error {
	if b == nil {
		return nil
	}

	ctx := c.UserContext()
	attempts, err := b.redisCache.Increment(ctx, attemptKey(ip))
	if err != nil {
		return nil
	}
	if attempts == 1 {
		if err := b.redisCache.Expire(ctx, attemptKey(ip), attemptWindow); err != nil {
			log.Warnf("brute force: failed to set expiry for %s: %v", ip, err)
		}
	}

	if d := lockoutFor(attempts); d > 0 {
		return b.redisCache.Set(ctx, lockKey(ip), "locked", d)
	}
	return nil
}

// RecordSuccessfulAttempt clears the counter and any lock for ip
func (b *BruteForceProtection) RecordSuccessfulAttempt(c *fiber.Ctx, ip string) error {
	if b == nil {
		return nil
	}
	return b.redisCache.Delete(c.UserContext(), attemptKey(ip), lockKey(ip))
}
