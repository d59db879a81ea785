package middleware

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"sa-fashion-be/internal/logger"
	"sa-fashion-be/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Tier is a rate limit policy.
type Tier struct {
	Name  string
	Limit rate.Limit
	Burst int
}

var (
	// Checkout
	TierStrict = Tier{Name: "strict", Limit: rate.Limit(2), Burst: 5}

	// Default
	TierGeneral = Tier{Name: "general", Limit: rate.Limit(10), Burst: 20}

	// Frontend-heavy apps
	TierFrontend = Tier{Name: "frontend", Limit: rate.Limit(20), Burst: 40}

	// Internal / trusted services
	TierInternal = Tier{Name: "internal", Limit: rate.Limit(100), Burst: 200}
)

const (
	visitorTTL    = 3 * time.Minute
	sweepInterval = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client and tier. Stale buckets
// are swept on access, so no background goroutine is needed.
type RateLimiter struct {
	internalKey string
	trusted     []netip.Prefix

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter builds a limiter. Requests carrying internalKey in
// X-Service-Auth get the internal tier; an empty key disables that tier.
// Forwarding headers are honoured only when the peer is in trusted.
func NewRateLimiter(internalKey string, trusted ...netip.Prefix) *RateLimiter {
	return &RateLimiter{
		internalKey: internalKey,
		trusted:     trusted,
		visitors:    make(map[string]*visitor),
		now:         time.Now,
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tier := rl.resolveTier(r)
		key := fmt.Sprintf("%s:%s", rl.clientIdentity(r), tier.Name)

		if !rl.limiter(key, tier).Allow() {
			logger.FromCtx(r.Context()).Warn("rate limit exceeded",
				zap.String("tier", tier.Name),
				zap.String("key", key),
			)
			utils.WriteJSONError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) limiter(key string, tier Tier) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= sweepInterval {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) > visitorTTL {
				delete(rl.visitors, k)
			}
		}
		rl.lastSweep = now
	}

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(tier.Limit, tier.Burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// resolveTier determines which rate limit policy applies to the request.
func (rl *RateLimiter) resolveTier(r *http.Request) Tier {
	if rl.internalKey != "" && r.Header.Get("X-Service-Auth") == rl.internalKey {
		return TierInternal
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/checkout" {
		return TierStrict
	}

	if r.Header.Get("X-Client-Type") == "frontend-heavy" {
		return TierFrontend
	}

	return TierGeneral
}

// ParseTrustedProxies turns IPs and CIDRs into prefixes. Entries that
// parse as neither are logged and skipped.
func ParseTrustedProxies(entries []string) []netip.Prefix {
	var out []netip.Prefix
	for _, e := range entries {
		if p, err := netip.ParsePrefix(e); err == nil {
			out = append(out, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(e); err == nil {
			a = a.Unmap()
			out = append(out, netip.PrefixFrom(a, a.BitLen()))
			continue
		}
		logger.L().Warn("ignoring invalid trusted proxy", zap.String("entry", e))
	}
	return out
}

func (rl *RateLimiter) isTrusted(a netip.Addr) bool {
	a = a.Unmap()
	for _, p := range rl.trusted {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

func (rl *RateLimiter) clientIdentity(r *http.Request) string {
	if deviceID := r.Header.Get("X-Device-ID"); deviceID != "" {
		return "device:" + deviceID
	}
	return "ip:" + rl.clientIP(r)
}

// clientIP is the peer address unless the peer is a trusted proxy. Then
// X-Forwarded-For is read right to left and the first untrusted hop wins,
// falling back to X-Real-IP.
func (rl *RateLimiter) clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	peer, err := netip.ParseAddr(host)
	if err != nil || !rl.isTrusted(peer) {
		return host
	}

	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	client := peer
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		a, err := netip.ParseAddr(hop)
		if err != nil {
			break
		}
		client = a.Unmap()
		if !rl.isTrusted(client) {
			return client.String()
		}
	}

	if xr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return xr.Unmap().String()
	}
	return client.String()
}
