package middleware

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/domain"
)

// maxTrackedClients bounds the limiter table; the least recently seen client
// is forgotten first.
const maxTrackedClients = 4096

// RateLimiter hands out one token bucket per client.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	mu      sync.Mutex
	clients *lru.Cache[string, *rate.Limiter]
	logger  *logrus.Logger
}

// NewRateLimiter creates a limiter allowing rps requests per second per
// client with bursts of up to burst requests.
func NewRateLimiter(cfg domain.RateLimitConfig, logger *logrus.Logger) (*RateLimiter, error) {
	if cfg.RequestsPerSecond <= 0 || cfg.Burst <= 0 {
		return nil, fmt.Errorf("rate limit requires positive requests_per_second and burst, got %v/%d", cfg.RequestsPerSecond, cfg.Burst)
	}
	clients, err := lru.New[string, *rate.Limiter](maxTrackedClients)
	if err != nil {
		return nil, fmt.Errorf("failed to create client table: %w", err)
	}
	return &RateLimiter{
		limit:   rate.Limit(cfg.RequestsPerSecond),
		burst:   cfg.Burst,
		clients: clients,
		logger:  logger,
	}, nil
}

// Allow reports whether clientID may make a request now.
func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mu.Lock()
	limiter, ok := rl.clients.Get(clientID)
	if !ok {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.clients.Add(clientID, limiter)
	}
	rl.mu.Unlock()

	return limiter.Allow()
}

// Clients returns the number of clients currently tracked.
func (rl *RateLimiter) Clients() int {
	return rl.clients.Len()
}

// Middleware rejects requests over the client's budget with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		if rl.Allow(clientIP) {
			c.Next()
			return
		}

		rl.logger.WithFields(logrus.Fields{
			"client_ip":      clientIP,
			"path":           c.Request.URL.Path,
			"correlation_id": c.GetString(CorrelationKey),
		}).Warn("Rate limit exceeded")

		c.Header("Retry-After", "1")
		AbortWithError(c, http.StatusTooManyRequests, domain.ErrRateLimit, "rate limit exceeded", "")
	}
}
