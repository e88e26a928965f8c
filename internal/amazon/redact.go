package amazon

var sensitiveParams = map[string]bool{
	"AWSAccessKeyId": true,
	"Signature":      true,
	"MWSAuthToken":   true,
	"SellerId":       true,
	"AccessToken":    true,
}

// redactParams copies request parameters with credential values masked so
// they can go to the merchant-visible debug log.
func redactParams(params map[string]string) map[string]string {
	out := make(map[string]string, len(params))
	for k, v := range params {
		if sensitiveParams[k] {
			out[k] = "[redacted]"
			continue
		}
		out[k] = v
	}
	return out
}
