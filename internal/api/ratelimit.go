package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	maxTrackedClients = 10000
	clientIdleTTL     = 3 * time.Minute
)

// rateLimitMiddleware enforces a per-client request budget. Clients are keyed
// by IP; idle entries are pruned once the table grows past maxTrackedClients.
func rateLimitMiddleware(perMinute int) gin.HandlerFunc {
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)

	limit := rate.Every(time.Minute / time.Duration(perMinute))

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		cl, ok := clients[ip]
		if !ok {
			cl = &client{limiter: rate.NewLimiter(limit, perMinute)}
			clients[ip] = cl
		}
		cl.lastSeen = time.Now()
		if len(clients) > maxTrackedClients {
			for key, other := range clients {
				if time.Since(other.lastSeen) > clientIdleTTL {
					delete(clients, key)
				}
			}
		}
		allowed := cl.limiter.Allow()
		mu.Unlock()

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
