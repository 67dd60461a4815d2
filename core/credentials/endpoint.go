package credentials

import "strings"

const (
	schemeSecure   = "https://"
	schemeInsecure = "http://"
)

// NormalizeEndpoint returns endpoint as an absolute URL.
// Endpoints without a scheme are assumed to be served over TLS.
func NormalizeEndpoint(endpoint string) string {
	if strings.HasPrefix(endpoint, schemeInsecure) || strings.HasPrefix(endpoint, schemeSecure) {
		return endpoint
	}
	return schemeSecure + endpoint
}
