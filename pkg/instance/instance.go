package instance

import "os"

const envInstanceID = "FOODCART_INSTANCE_ID"

// GetID returns the engine instance identifier: the configured ID, then the
// host name, then a default.
func GetID() string {
	if id := os.Getenv(envInstanceID); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "engine-0"
}
