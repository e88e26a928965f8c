package amazon

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"sort"
	"strings"
)

// percentEncode applies the provider's RFC 3986 encoding rules: space is
// %20 (never +), asterisk is escaped, tilde is not.
func percentEncode(s string) string {
	e := url.QueryEscape(s)
	e = strings.ReplaceAll(e, "+", "%20")
	e = strings.ReplaceAll(e, "*", "%2A")
	e = strings.ReplaceAll(e, "%7E", "~")
	return e
}

// canonicalQuery sorts parameters by key and encodes each pair.
func canonicalQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(params[k]))
	}
	return strings.Join(pairs, "&")
}

// signQuery computes the SignatureVersion 2 request signature: a base64
// HMAC-SHA256 over "GET\n{host}\n{path}\n{canonical_query}".
func signQuery(host, path string, params map[string]string, secretKey string) string {
	stringToSign := strings.Join([]string{
		"GET",
		host,
		path,
		canonicalQuery(params),
	}, "\n")

	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(stringToSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
