package amazon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentEncode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"space becomes percent 20", "a b", "a%20b"},
		{"asterisk is escaped", "a*b", "a%2Ab"},
		{"tilde stays literal", "a~b", "a~b"},
		{"colon is escaped", "2026-01-02T03:04:05Z", "2026-01-02T03%3A04%3A05Z"},
		{"unreserved passthrough", "AbZ09-_.~", "AbZ09-_.~"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, percentEncode(tt.input))
		})
	}
}

func TestCanonicalQuery_SortsByKey(t *testing.T) {
	query := canonicalQuery(map[string]string{
		"Timestamp":      "2026-01-02T03:04:05Z",
		"Action":         "Authorize",
		"AWSAccessKeyId": "AKIAEXAMPLE",
		"SellerId":       "A2EXAMPLE",
	})

	assert.Equal(t,
		"AWSAccessKeyId=AKIAEXAMPLE&Action=Authorize&SellerId=A2EXAMPLE&Timestamp=2026-01-02T03%3A04%3A05Z",
		query)
}

func TestSignQuery_KnownVector(t *testing.T) {
	sig := signQuery(
		"mws.amazonservices.com",
		"/OffAmazonPayments/2013-01-01",
		map[string]string{
			"AWSAccessKeyId": "AKIAEXAMPLE",
			"Action":         "Authorize",
			"SellerId":       "A2EXAMPLE",
			"Timestamp":      "2026-01-02T03:04:05Z",
		},
		"secret",
	)

	assert.Equal(t, "5v5ePoHWh+1o19ALVognuK8tvz8D6sUyCtUOOMcNO2o=", sig)
}

func TestSignQuery_SensitiveToHostAndPath(t *testing.T) {
	params := map[string]string{"Action": "Capture"}

	a := signQuery("mws.amazonservices.com", "/OffAmazonPayments/2013-01-01", params, "secret")
	b := signQuery("mws-eu.amazonservices.com", "/OffAmazonPayments/2013-01-01", params, "secret")
	c := signQuery("mws.amazonservices.com", "/OffAmazonPayments_Sandbox/2013-01-01", params, "secret")

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestRedactParams(t *testing.T) {
	params := map[string]string{
		"Action":         "Authorize",
		"AWSAccessKeyId": "AKIAEXAMPLE",
		"Signature":      "abc123",
		"MWSAuthToken":   "amzn.mws.token",
	}

	redacted := redactParams(params)

	assert.Equal(t, "Authorize", redacted["Action"])
	assert.Equal(t, "[redacted]", redacted["AWSAccessKeyId"])
	assert.Equal(t, "[redacted]", redacted["Signature"])
	assert.Equal(t, "[redacted]", redacted["MWSAuthToken"])
	// The caller's map is untouched.
	assert.Equal(t, "abc123", params["Signature"])
}
