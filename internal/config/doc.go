// Package config loads farefinder's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/farefinder/config.toml
//  3. If the file doesn't exist, return Default()
//  4. If the file exists but fields are missing or empty, keep their defaults
//
// Malformed TOML, unparsable durations and unknown cache backends are
// errors; farefinder refuses to start rather than guess.
//
// # TOML Format
//
//	api_base = "http://localhost:9090/api/v1"
//	page_size = 10
//	request_timeout = "10s"
//	log_file = "~/.local/state/farefinder/farefinder.log"
//	log_level = "info"          # debug, info, warn, error
//
//	[rate_limit]
//	requests_per_second = 5.0   # 0 disables throttling
//	burst = 10
//
//	[cache]
//	enabled = false
//	backend = "memory"          # or "redis"
//	ttl = "2m"
//	redis_addr = "127.0.0.1:6379"
//	redis_db = 0
//
// Paths starting with ~ are expanded against the user's home directory.
package config
