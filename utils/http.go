// utils/http.go
package utils

import (
	"net/http"
	"time"
)

// HTTPClient is the shared client for outbound calls that are not latency
// sensitive (bot transport, dashboards). Provider lookups on the hot path
// carry their own tighter timeout.
var HTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}
