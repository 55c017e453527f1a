package ratelimit

import (
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultLimit is the per-minute allowance of routes without their own entry
const DefaultLimit = 600

// EndpointConfig is the limit applied to one route
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends in "/"
	Method string        // HTTP method
	Limit  int           // requests per window
	Window time.Duration // refill window
	Burst  int           // bucket capacity, defaults to Limit
}

// renderPaths are the routes that assemble a whole deck per request
var renderPaths = []string{"/decks", "/decks/stream"}

// LoadConfig reads RATE_LIMIT_* variables through getenv. A nil getenv reads
// the process environment.
func LoadConfig(getenv func(string) string) *Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	env := envReader(getenv)

	if !env.boolean("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.integer("RATE_LIMIT_DEFAULT_LIMIT", DefaultLimit),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(env.str("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(env.str("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-route limits of the deck API
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Model calls: strictest
		{Path: "/drafts", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},

		// Deck assembly
		{Path: "/decks", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/decks/stream", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},

		// Schema checks are cheap
		{Path: "/decks/validate", Method: "POST", Limit: 300, Window: time.Minute, Burst: 50},
	}
}

// SetRenderLimit overrides the deck assembly routes with a requests-per-second
// rate and burst. Non-positive values leave the current setting alone.
func (c *Config) SetRenderLimit(rps float64, burst int) {
	if c == nil {
		return
	}
	for i := range c.EndpointConfigs {
		ep := &c.EndpointConfigs[i]
		if !isRenderPath(ep.Path) {
			continue
		}
		if rps > 0 {
			ep.Limit = max(1, int(math.Round(rps*60)))
			ep.Window = time.Minute
		}
		if burst > 0 {
			ep.Burst = burst
		}
	}
}

func isRenderPath(path string) bool {
	for _, p := range renderPaths {
		if p == path {
			return true
		}
	}
	return false
}

type envReader func(string) string

func (e envReader) str(key, defaultValue string) string {
	if value := e(key); value != "" {
		return value
	}
	return defaultValue
}

func (e envReader) integer(key string, defaultValue int) int {
	if v, err := strconv.Atoi(e(key)); err == nil {
		return v
	}
	return defaultValue
}

func (e envReader) boolean(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(e(key)); err == nil {
		return v
	}
	return defaultValue
}

func (e envReader) duration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(e(key)); err == nil {
		return v
	}
	return defaultValue
}

// parseIPList splits a comma-separated list of addresses into a set
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
