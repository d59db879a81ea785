package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sa-fashion-be/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCors(t *testing.T) {
	t.Run("AllowAll_Preflight", func(t *testing.T) {
		handler := CORS([]string{"*"})(http.NotFoundHandler())

		req := httptest.NewRequest(http.MethodOptions, "/api/checkout", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Headers", "content-type, x-client-type")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
		assert.Equal(t, "content-type, x-client-type", w.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("AllowAll_Normal", func(t *testing.T) {
		handler := CORS(nil)(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
	})

	t.Run("ListedOrigin", func(t *testing.T) {
		handler := CORS([]string{"https://shop.example.co.za"})(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://shop.example.co.za")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "https://shop.example.co.za", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", w.Header().Get("Vary"))
	})

	t.Run("UnlistedOrigin", func(t *testing.T) {
		handler := CORS([]string{"https://shop.example.co.za"})(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRateLimiter_ResolveTier(t *testing.T) {
	rl := NewRateLimiter("s3cret")

	tests := []struct {
		name     string
		method   string
		path     string
		headers  map[string]string
		expected Tier
	}{
		{name: "Default", method: http.MethodGet, path: "/api/products", expected: TierGeneral},
		{name: "Checkout", method: http.MethodPost, path: "/api/checkout", expected: TierStrict},
		{name: "CheckoutPreflightIsGeneral", method: http.MethodGet, path: "/api/checkout", expected: TierGeneral},
		{name: "Frontend", method: http.MethodGet, path: "/api/products", headers: map[string]string{"X-Client-Type": "frontend-heavy"}, expected: TierFrontend},
		{name: "Internal", method: http.MethodPost, path: "/api/checkout", headers: map[string]string{"X-Service-Auth": "s3cret"}, expected: TierInternal},
		{name: "WrongInternalKey", method: http.MethodGet, path: "/", headers: map[string]string{"X-Service-Auth": "guess"}, expected: TierGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, rl.resolveTier(req))
		})
	}

	t.Run("EmptyKeyDisablesInternal", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Service-Auth", "")
		assert.Equal(t, TierGeneral, NewRateLimiter("").resolveTier(req))
	})
}

func TestRateLimiter_Middleware(t *testing.T) {
	t.Run("StrictTierBlocksAfterBurst", func(t *testing.T) {
		handler := NewRateLimiter("").Middleware(okHandler())

		codes := make([]int, 0, TierStrict.Burst+1)
		for i := 0; i < TierStrict.Burst+1; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
			req.RemoteAddr = "10.0.0.1:5000"
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			codes = append(codes, w.Code)
		}

		for _, c := range codes[:TierStrict.Burst] {
			assert.Equal(t, http.StatusOK, c)
		}
		assert.Equal(t, http.StatusTooManyRequests, codes[TierStrict.Burst])
	})

	t.Run("SeparateClientsSeparateBuckets", func(t *testing.T) {
		handler := NewRateLimiter("").Middleware(okHandler())

		for i := 0; i < TierStrict.Burst; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
			req.Header.Set("X-Device-ID", "device-a")
			handler.ServeHTTP(httptest.NewRecorder(), req)
		}

		req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
		req.Header.Set("X-Device-ID", "device-b")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("RejectBody", func(t *testing.T) {
		handler := NewRateLimiter("").Middleware(okHandler())

		var w *httptest.ResponseRecorder
		for i := 0; i <= TierStrict.Burst; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
			w = httptest.NewRecorder()
			handler.ServeHTTP(w, req)
		}

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.JSONEq(t, `{"detail":"Too Many Requests"}`, w.Body.String())
	})
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl := NewRateLimiter("")
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.limiter("ip:1:general", TierGeneral)
	rl.limiter("ip:2:general", TierGeneral)
	assert.Equal(t, 2, rl.size())

	now = now.Add(2 * time.Minute)
	rl.limiter("ip:2:general", TierGeneral)
	assert.Equal(t, 2, rl.size())

	now = now.Add(2 * time.Minute)
	rl.limiter("ip:3:general", TierGeneral)
	assert.Equal(t, 2, rl.size(), "ip:1 idle for 4m is swept, ip:2 idle for 2m is kept")
}

func TestClientIdentity(t *testing.T) {
	rl := NewRateLimiter("")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.9:41234"
	assert.Equal(t, "ip:192.168.1.9", rl.clientIdentity(req))

	req.RemoteAddr = "192.168.1.9"
	assert.Equal(t, "ip:192.168.1.9", rl.clientIdentity(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	assert.Equal(t, "ip:192.168.1.9", rl.clientIdentity(req), "untrusted peer cannot forward")

	req.Header.Set("X-Device-ID", "abc")
	assert.Equal(t, "device:abc", rl.clientIdentity(req))
}

func TestRateLimiter_ClientIPBehindProxy(t *testing.T) {
	rl := NewRateLimiter("", ParseTrustedProxies([]string{"10.0.0.0/8", "172.16.0.1"})...)

	tests := []struct {
		name       string
		remoteAddr string
		xff        []string
		realIP     string
		expected   string
	}{
		{name: "DirectClient", remoteAddr: "198.51.100.4:5000", xff: []string{"203.0.113.7"}, expected: "198.51.100.4"},
		{name: "SingleHop", remoteAddr: "10.1.2.3:5000", xff: []string{"203.0.113.7"}, expected: "203.0.113.7"},
		{name: "SpoofedLeftmostIgnored", remoteAddr: "10.1.2.3:5000", xff: []string{"1.1.1.1, 203.0.113.7"}, expected: "203.0.113.7"},
		{name: "ChainOfTrustedHops", remoteAddr: "10.1.2.3:5000", xff: []string{"203.0.113.7, 172.16.0.1", "10.9.9.9"}, expected: "203.0.113.7"},
		{name: "RealIPFallback", remoteAddr: "10.1.2.3:5000", realIP: "203.0.113.8", expected: "203.0.113.8"},
		{name: "NoHeaders", remoteAddr: "10.1.2.3:5000", expected: "10.1.2.3"},
		{name: "GarbageHop", remoteAddr: "10.1.2.3:5000", xff: []string{"not-an-ip"}, expected: "10.1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for _, v := range tt.xff {
				req.Header.Add("X-Forwarded-For", v)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			assert.Equal(t, tt.expected, rl.clientIP(req))
		})
	}
}

func TestRateLimiter_StrictTierPerForwardedClient(t *testing.T) {
	handler := NewRateLimiter("", ParseTrustedProxies([]string{"10.0.0.1"})...).Middleware(okHandler())

	send := func(client string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
		req.RemoteAddr = "10.0.0.1:443"
		req.Header.Set("X-Forwarded-For", client)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := 0; i < TierStrict.Burst; i++ {
		assert.Equal(t, http.StatusOK, send("203.0.113.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.1"))
	assert.Equal(t, http.StatusOK, send("203.0.113.2"), "another client behind the same proxy has its own bucket")
}

func TestParseTrustedProxies(t *testing.T) {
	got := ParseTrustedProxies([]string{"10.0.0.0/8", "192.168.1.10", "::ffff:172.16.0.1", "nonsense", "fd00::/8"})
	require.Len(t, got, 4)
	assert.Equal(t, "10.0.0.0/8", got[0].String())
	assert.Equal(t, "192.168.1.10/32", got[1].String())
	assert.Equal(t, "172.16.0.1/32", got[2].String())
	assert.Equal(t, "fd00::/8", got[3].String())

	assert.Empty(t, ParseTrustedProxies(nil))
}

func TestMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	mux := http.NewServeMux()
	mux.Handle("GET /api/products", okHandler())
	handler := Metrics(m)(mux)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products?q=tee", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET /api/products", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("unmatched", "GET", "404")))
}
