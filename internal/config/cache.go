package config

import (
	"strings"
	"time"
)

// CacheConfig controls the Redis response cache fronting the public
// hotel browse endpoints. Room capacity moves with every booking, so
// the default TTL is short: a stale entry only delays the availability
// numbers shown to browsers, never reservation correctness.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool // HTTP methods eligible for caching
	TTL          time.Duration   // entry lifetime
	KeyStrategy  string          // which request parts form the cache key
	Prefix       string          // Redis key namespace
	MaxBodyBytes int             // responses larger than this bypass the cache
}

// LoadCacheConfig builds a CacheConfig from environment variables with
// defaults sized for the browse endpoints.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}
