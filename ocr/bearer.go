package ocr

import (
	"fmt"
	"net/http"
)

// BearerTransport wraps a RoundTripper to add the Authorization header.
type BearerTransport struct {
	BaseTransport http.RoundTripper
	Token         string
}

// RoundTrip implements the RoundTripper interface to modify the request.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid side effects
	reqClone := req.Clone(req.Context())
	reqClone.Header.Set("Authorization", fmt.Sprintf("Bearer %s", t.Token))

	base := t.BaseTransport
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(reqClone)
}
