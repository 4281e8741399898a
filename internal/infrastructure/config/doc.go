// Package config provides 12-factor configuration management for the DeskOS
// session service.
//
// Configuration is loaded from environment variables with sensible defaults.
// A YAML file can be layered on top with LoadFile; keys it names override the
// environment, keys it omits keep their environment or default value.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host, shutdown grace)
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - Cache: Namespace, storage directory, quota and snapshot limits
//   - Coalesce: Debounce and throttle intervals for mirrored writes
//   - Playback: Time sampling, seek threshold and playlist file
//   - Contact: Contact relay endpoint and retry policy
//
// Example Usage:
//
//	cfg, err := config.LoadFile("deskos.yaml")
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Server running on %s\n", cfg.Server.Addr())
//
// Environment Variables:
//   - PORT, HOST, SHUTDOWN_TIMEOUT
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - CACHE_NAMESPACE, CACHE_DIR, CACHE_QUOTA, ...
//   - WINDOW_DEBOUNCE, SCROLL_DEBOUNCE, CANVAS_THROTTLE
//   - PLAYBACK_SAMPLE_INTERVAL, PLAYBACK_SEEK_THRESHOLD, PLAYLIST_PATH
//   - CONTACT_ENDPOINT, CONTACT_TIMEOUT, CONTACT_RETRIES
package config
