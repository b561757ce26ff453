package myhttp

import (
	"fmt"
	"net/http"
	"os"
)

func HostnameWithScheme(r *http.Request) string {
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// GuessHostnameWithScheme is used when no request is at hand, such as when
// subscribing a push-endpoint at startup.
func GuessHostnameWithScheme() string {
	hostname := os.Getenv("HOSTNAME_WITH_SCHEME")
	if hostname == "" {
		hostname = "http://localhost:8080"
	}
	return hostname
}
