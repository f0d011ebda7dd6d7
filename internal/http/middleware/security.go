package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/bloomhouse/admin-console/internal/config"
)

type headerRule struct {
	name, value string
	// skipDocs leaves the header off the swagger UI, which relies on inline scripts
	skipDocs bool
}

// SecurityHeaders adds the configured browser hardening headers. API responses carry staff
// and customer data, so they are also marked as not cacheable.
func SecurityHeaders(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	rules := securityRules(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			docs := strings.HasPrefix(r.URL.Path, "/swagger")
			h := w.Header()
			for _, rule := range rules {
				if rule.skipDocs && docs {
					continue
				}
				h.Set(rule.name, rule.value)
			}
			if strings.HasPrefix(r.URL.Path, "/api/") {
				h.Set("Cache-Control", "no-store")
			}
			h.Del("X-Powered-By")
			h.Del("Server")

			next.ServeHTTP(w, r)
		})
	}
}

func securityRules(cfg *config.SecurityConfig) []headerRule {
	var rules []headerRule
	add := func(name, value string, skipDocs bool) {
		if value != "" {
			rules = append(rules, headerRule{name: name, value: value, skipDocs: skipDocs})
		}
	}

	if cfg.ContentTypeNosniff {
		add("X-Content-Type-Options", "nosniff", false)
	}
	add("X-Frame-Options", cfg.FrameOptions, false)
	add("X-XSS-Protection", cfg.XSSProtection, false)
	add("Content-Security-Policy", cfg.ContentSecurityPolicy, true)
	add("Referrer-Policy", cfg.ReferrerPolicy, false)
	add("Permissions-Policy", cfg.PermissionsPolicy, false)

	if cfg.EnableHSTS {
		hsts := []string{"max-age=" + strconv.Itoa(cfg.HSTSMaxAge)}
		if cfg.HSTSIncludeSubdomains {
			hsts = append(hsts, "includeSubDomains")
		}
		if cfg.HSTSPreload {
			hsts = append(hsts, "preload")
		}
		add("Strict-Transport-Security", strings.Join(hsts, "; "), false)
	}
	return rules
}
