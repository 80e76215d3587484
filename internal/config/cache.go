package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the menu response cache. When Enabled is
// false or no Redis client is configured, responses are never cached.
//
// Cache keys are built from the route, the query string and the headers in
// VaryHeaders, so the HTML and the JSON rendering of a page are stored apart.
// Prefix namespaces every key; creating a menu item purges the menu
// namespace below it.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	Prefix       string
	VaryHeaders  []string
	MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* variables. Methods are upper-cased.
func LoadCacheConfig() CacheConfig {
	methods := map[string]bool{}
	for _, m := range envList("CACHE_METHODS", "GET") {
		methods[strings.ToUpper(m)] = true
	}
	cfg := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      methods,
		TTL:          envDur("CACHE_TTL", time.Minute),
		Prefix:       getenv("CACHE_PREFIX", "restaurant:cache"),
		VaryHeaders:  envList("CACHE_VARY", "X-Requested-With,Accept"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Minute
	}
	return cfg
}
