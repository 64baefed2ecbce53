package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://app.example.com").
	// Used for generating absolute URLs such as the OAuth redirect.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// AuthRatePerSecond limits login/callback attempts per client IP.
	AuthRatePerSecond float64 `env:"HTTP_AUTH_RATE_PER_SECOND" envDefault:"2"`

	// AuthRateBurst is the burst allowance for the auth rate limiter.
	AuthRateBurst int `env:"HTTP_AUTH_RATE_BURST" envDefault:"5"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.AuthRatePerSecond <= 0 {
		h.AuthRatePerSecond = 2
	}
	if h.AuthRateBurst < 1 {
		h.AuthRateBurst = 5
	}
}
