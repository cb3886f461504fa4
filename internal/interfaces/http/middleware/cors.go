package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig holds the cross-origin policy.
type CORSConfig struct {
	// AllowedOrigins lists exact origins. "*" allows any origin, and
	// "*.example.com" allows subdomains when AllowWildcard is set.
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
	AllowWildcard    bool
}

// DefaultCORSConfig allows no origin until one is configured.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			HeaderRequestID,
		},
		ExposedHeaders: []string{
			HeaderRequestID,
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
		},
		MaxAge: 24 * time.Hour,
	}
}

// CORS returns the cross-origin middleware. With no allowed origins it is a
// pass-through, since cors.New rejects an empty policy.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	if len(cfg.AllowedOrigins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	cc := cors.Config{
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     cfg.AllowedHeaders,
		ExposeHeaders:    cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
		AllowWildcard:    cfg.AllowWildcard,
	}
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			// A wildcard with credentials has to echo the request origin.
			if cfg.AllowCredentials {
				cc.AllowOriginFunc = func(string) bool { return true }
			} else {
				cc.AllowAllOrigins = true
			}
			cc.AllowOrigins = nil
			break
		}
		if cfg.AllowWildcard && strings.HasPrefix(o, "*.") {
			o = "https://" + o
		}
		cc.AllowOrigins = append(cc.AllowOrigins, o)
	}
	return cors.New(cc)
}

//Personal.AI order the ending
