// security.go injects protective HTTP response headers. The portal exposes two
// surfaces with different needs: the JSON API, which no browser page should
// frame or script against, and the directly served /media tree, whose park and
// species images the public frontend embeds cross-origin.
package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// SecurityHeadersConfig holds the per-surface header policy
type SecurityHeadersConfig struct {
	// EnableHSTS enables HTTP Strict Transport Security
	EnableHSTS bool
	// HSTSMaxAge is the max-age value for HSTS in seconds
	HSTSMaxAge int
	// HSTSIncludeSubdomains includes subdomains in HSTS
	HSTSIncludeSubdomains bool
	// FrameOptionsValue is the X-Frame-Options value; "" omits the header
	FrameOptionsValue string
	// ContentSecurityPolicy is the CSP header value; "" omits the header
	ContentSecurityPolicy string
	// ReferrerPolicy is the Referrer-Policy header value
	ReferrerPolicy string
	// PermissionsPolicy is the Permissions-Policy header value; "" omits the header
	PermissionsPolicy string
	// CrossOriginResourcePolicy controls who may embed responses
	CrossOriginResourcePolicy string
}

// APISecurityHeadersConfig returns the policy for the JSON API: nothing may
// frame, script, or embed API responses.
func APISecurityHeadersConfig() SecurityHeadersConfig {
	return SecurityHeadersConfig{
		EnableHSTS:                true,
		HSTSMaxAge:                31536000, // 1 year
		HSTSIncludeSubdomains:     true,
		FrameOptionsValue:         "DENY",
		ContentSecurityPolicy:     "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:            "no-referrer",
		PermissionsPolicy:         "geolocation=(), microphone=(), camera=()",
		CrossOriginResourcePolicy: "same-origin",
	}
}

// MediaSecurityHeadersConfig returns the policy for /media responses. The
// frontend runs on a different origin, so images must be embeddable
// cross-origin; everything else stays as strict as the API policy.
func MediaSecurityHeadersConfig() SecurityHeadersConfig {
	cfg := APISecurityHeadersConfig()
	cfg.CrossOriginResourcePolicy = "cross-origin"
	cfg.ReferrerPolicy = "strict-origin-when-cross-origin"
	return cfg
}

// SecurityHeadersMiddleware adds the configured headers to every response.
// Attached per route group it overrides a policy set further up the chain,
// which is how /media relaxes the global API policy.
func SecurityHeadersMiddleware(config SecurityHeadersConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.EnableHSTS {
			hstsValue := "max-age=" + strconv.Itoa(config.HSTSMaxAge)
			if config.HSTSIncludeSubdomains {
				hstsValue += "; includeSubDomains"
			}
			c.Header("Strict-Transport-Security", hstsValue)
		}

		if config.FrameOptionsValue != "" {
			c.Header("X-Frame-Options", config.FrameOptionsValue)
		}

		if config.ContentSecurityPolicy != "" {
			c.Header("Content-Security-Policy", config.ContentSecurityPolicy)
		}

		if config.ReferrerPolicy != "" {
			c.Header("Referrer-Policy", config.ReferrerPolicy)
		}

		if config.PermissionsPolicy != "" {
			c.Header("Permissions-Policy", config.PermissionsPolicy)
		}

		if config.CrossOriginResourcePolicy != "" {
			c.Header("Cross-Origin-Resource-Policy", config.CrossOriginResourcePolicy)
		}

		// Always on: uploaded media must never be content-sniffed into
		// something executable, and API responses have no cross-domain use.
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Permitted-Cross-Domain-Policies", "none")
		c.Header("Cross-Origin-Opener-Policy", "same-origin")

		c.Next()
	}
}
