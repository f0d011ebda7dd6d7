package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bloomhouse/admin-console/internal/auth"
	"github.com/bloomhouse/admin-console/internal/config"
	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

const rateWindow = time.Minute

// RateLimiter throttles console traffic in three buckets: anonymous callers per address,
// signed-in staff per account, and login attempts per address.
type RateLimiter struct {
	enabled   bool
	logger    *zap.Logger
	anonymous func(http.Handler) http.Handler
	staff     func(http.Handler) http.Handler
	login     func(http.Handler) http.Handler
	exempt    exemptions
}

// exemptions lists callers and paths that are never throttled. A path ending in /* exempts
// everything below it.
type exemptions struct {
	addrs    map[string]struct{}
	paths    map[string]struct{}
	prefixes []string
}

func newExemptions(addrs, paths []string) exemptions {
	e := exemptions{
		addrs: make(map[string]struct{}, len(addrs)),
		paths: make(map[string]struct{}, len(paths)),
	}
	for _, a := range addrs {
		e.addrs[a] = struct{}{}
	}
	for _, p := range paths {
		if prefix, ok := strings.CutSuffix(p, "/*"); ok {
			e.prefixes = append(e.prefixes, prefix)
			continue
		}
		e.paths[p] = struct{}{}
	}
	return e
}

func (e exemptions) covers(r *http.Request) bool {
	if _, ok := e.paths[r.URL.Path]; ok {
		return true
	}
	for _, prefix := range e.prefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	_, ok := e.addrs[callerAddress(r)]
	return ok
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(cfg *config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		enabled: cfg.Enabled,
		logger:  logger,
		exempt:  newExemptions(cfg.WhitelistIPs, cfg.WhitelistPaths),
	}

	rl.anonymous = httprate.Limit(cfg.RequestsPerMinute, rateWindow,
		httprate.WithKeyFuncs(keyByAddress),
		httprate.WithLimitHandler(rl.tooManyRequests("Too many requests, please wait a minute and try again")),
	)
	rl.staff = httprate.Limit(cfg.RequestsPerMinuteAuth, rateWindow,
		httprate.WithKeyFuncs(keyByStaff),
		httprate.WithLimitHandler(rl.tooManyRequests("Too many requests, please wait a minute and try again")),
	)
	rl.login = httprate.Limit(loginBudget(cfg), rateWindow,
		httprate.WithKeyFuncs(keyByAddress),
		httprate.WithLimitHandler(rl.tooManyRequests("Too many sign-in attempts, please wait a minute and try again")),
	)

	logger.Info("Rate limiter initialized",
		zap.Bool("enabled", cfg.Enabled),
		zap.Int("requests_per_minute", cfg.RequestsPerMinute),
		zap.Int("requests_per_minute_auth", cfg.RequestsPerMinuteAuth),
		zap.Int("login_attempts_per_minute", loginBudget(cfg)),
	)
	return rl
}

func loginBudget(cfg *config.RateLimitConfig) int {
	if cfg.LoginAttemptsPerMinute > 0 {
		return cfg.LoginAttemptsPerMinute
	}
	return cfg.RequestsPerMinute
}

// LimitByIP throttles every caller by address. Used before authentication.
func (rl *RateLimiter) LimitByIP(next http.Handler) http.Handler {
	return rl.wrap(rl.anonymous, next)
}

// Limit throttles signed-in staff per account and anyone else by address
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	if !rl.enabled {
		return next
	}
	byStaff := rl.staff(next)
	byAddress := rl.anonymous(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.exempt.covers(r) {
			next.ServeHTTP(w, r)
			return
		}
		if staff, ok := auth.FromContext(r.Context()); ok && staff != nil {
			byStaff.ServeHTTP(w, r)
			return
		}
		byAddress.ServeHTTP(w, r)
	})
}

// LimitLogin applies the tighter sign-in budget
func (rl *RateLimiter) LimitLogin(next http.Handler) http.Handler {
	return rl.wrap(rl.login, next)
}

func (rl *RateLimiter) wrap(limiter func(http.Handler) http.Handler, next http.Handler) http.Handler {
	if !rl.enabled {
		return next
	}
	limited := limiter(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.exempt.covers(r) {
			next.ServeHTTP(w, r)
			return
		}
		limited.ServeHTTP(w, r)
	})
}

func keyByStaff(r *http.Request) (string, error) {
	if staff, ok := auth.FromContext(r.Context()); ok && staff != nil {
		return "staff:" + staff.UserID, nil
	}
	return keyByAddress(r)
}

func keyByAddress(r *http.Request) (string, error) {
	return "ip:" + callerAddress(r), nil
}

// callerAddress resolves the client address from proxy headers, falling back to the peer host
func callerAddress(r *http.Request) string {
	var addr string
	switch {
	case r.Header.Get("True-Client-IP") != "":
		addr = r.Header.Get("True-Client-IP")
	case r.Header.Get("X-Real-IP") != "":
		addr = r.Header.Get("X-Real-IP")
	case r.Header.Get("X-Forwarded-For") != "":
		addr, _, _ = strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
	default:
		addr = r.RemoteAddr
		if host, _, err := net.SplitHostPort(addr); err == nil {
			addr = host
		}
	}
	return strings.TrimSpace(addr)
}

func (rl *RateLimiter) tooManyRequests(message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("client_ip", callerAddress(r)),
		}
		if staff, ok := auth.FromContext(r.Context()); ok && staff != nil {
			fields = append(fields, zap.String("user_id", staff.UserID))
		}
		rl.logger.Warn("rate limit exceeded", fields...)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", strconv.Itoa(int(rateWindow.Seconds())))
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(domain.APIError{
			Type:   "rate_limited",
			Title:  http.StatusText(http.StatusTooManyRequests),
			Status: http.StatusTooManyRequests,
			Detail: "Too many requests",
			Toast:  domain.ErrorToast(message),
		})
	}
}
