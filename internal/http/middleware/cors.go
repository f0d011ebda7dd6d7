package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/bloomhouse/admin-console/internal/config"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// consoleExposedHeaders are read by the browser console: the request id for support
// tickets and the filename of CSV exports
var consoleExposedHeaders = []string{RequestIDHeader, "Content-Disposition"}

// CORS returns a CORS middleware configured from the application config
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	exposed := slices.Clone(cfg.ExposedHeaders)
	for _, h := range consoleExposedHeaders {
		if !slices.ContainsFunc(exposed, func(v string) bool { return strings.EqualFold(v, h) }) {
			exposed = append(exposed, h)
		}
	}

	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   exposed,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	local := environment == "" || environment == "development" || environment == "local"
	anyOrigin := func(r *http.Request, origin string) bool { return origin != "" }

	switch {
	case slices.Contains(cfg.AllowedOrigins, "*"):
		if !local {
			logger.Warn("CORS configured with wildcard origin in non-development environment",
				zap.String("environment", environment))
		}
		options.AllowOriginFunc = anyOrigin
	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS configured with explicit origins", zap.Strings("origins", cfg.AllowedOrigins))
	case local:
		options.AllowOriginFunc = anyOrigin
		logger.Info("CORS configured to allow all origins in development mode")
	default:
		// an empty AllowedOrigins would mean "*" to go-chi/cors
		options.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
		logger.Warn("CORS configured with no allowed origins, all cross-origin requests will be denied",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}
