package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/growallgarden/server/internal/logger"
)

const (
	// failedAuthAlertThreshold is how many bad API keys from one IP raise
	// a security alert within the window.
	failedAuthAlertThreshold = 5

	// requestsPerWindow is the per-IP request ceiling within the window.
	requestsPerWindow = 1000

	abuseWindow    = 5 * time.Minute
	abuseCacheSize = 4096
)

// AbuseDetector tracks per-IP failed authentications and request volume.
// Counters live in a TTL cache, so each IP's window starts at its first
// offense and old entries fall out on their own.
type AbuseDetector struct {
	mu          sync.Mutex
	failedAuths *expirable.LRU[string, *atomic.Int64]
	requests    *expirable.LRU[string, *atomic.Int64]
}

func NewAbuseDetector() *AbuseDetector {
	return &AbuseDetector{
		failedAuths: expirable.NewLRU[string, *atomic.Int64](abuseCacheSize, nil, abuseWindow),
		requests:    expirable.NewLRU[string, *atomic.Int64](abuseCacheSize, nil, abuseWindow),
	}
}

func (d *AbuseDetector) bump(cache *expirable.LRU[string, *atomic.Int64], ip string) int64 {
	d.mu.Lock()
	c, ok := cache.Get(ip)
	if !ok {
		c = &atomic.Int64{}
		cache.Add(ip, c)
	}
	d.mu.Unlock()
	return c.Add(1)
}

// NoteFailedAuth records a rejected API key from ip.
func (d *AbuseDetector) NoteFailedAuth(ip string) {
	if n := d.bump(d.failedAuths, ip); n >= failedAuthAlertThreshold {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", n)
	}
}

// AllowRequest counts one request from ip and reports whether it is still
// under the rate ceiling.
func (d *AbuseDetector) AllowRequest(ip string) bool {
	n := d.bump(d.requests, ip)
	if n <= requestsPerWindow {
		return true
	}
	if n%100 == 0 { // sampled so a flood cannot also flood the log
		slog.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", n)
	}
	return false
}

func isPublicPath(path string) bool {
	for _, prefix := range PublicPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// AuthMiddleware requires the API key on every route outside PublicPaths.
func AuthMiddleware(apiKey string, trustedProxies []string, detector *AbuseDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(HeaderAPIKey)

			// Constant time comparison, so response timing leaks nothing
			// about the key.
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				ip := clientIP(r, trustedProxies)
				detector.NoteFailedAuth(ip)

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
					"has_key", provided != "",
					"ip", ip)

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestSizeLimitMiddleware caps the request body size
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityLoggingMiddleware enforces the per-IP rate ceiling.
func SecurityLoggingMiddleware(trustedProxies []string, detector *AbuseDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !detector.AllowRequest(clientIP(r, trustedProxies)) {
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP resolves the client address of a request. X-Forwarded-For is only
// honored when the direct peer is a trusted proxy; in that case the rightmost
// entry wins, since that is the hop the proxy itself vouches for.
func clientIP(r *http.Request, trustedProxies []string) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}

	if !slices.Contains(trustedProxies, peer) {
		return peer
	}

	forwarded := r.Header.Get(HeaderForwardedFor)
	if forwarded == "" {
		return peer
	}
	hops := strings.Split(forwarded, ",")
	return strings.TrimSpace(hops[len(hops)-1])
}

var securityHeaders = map[string]string{
	HeaderContentType:    HeaderValueNoSniff,
	HeaderFrameOptions:   HeaderValueSameOrigin,
	HeaderXSSProtection:  HeaderValueXSSBlock,
	HeaderReferrerPolicy: HeaderValueReferrerStrictOrigin,
}

// SecurityHeadersMiddleware stamps the standard security headers on every
// response.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for name, value := range securityHeaders {
				w.Header().Set(name, value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
