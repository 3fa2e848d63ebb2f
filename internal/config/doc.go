// Package config manages user-level settings stored at ~/.commitx/config.yaml.
// Values can also come from COMMITX_* environment variables or from flags the
// CLI binds to the same keys.
package config
