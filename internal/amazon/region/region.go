// Package region maps merchant countries to Amazon Pay platforms and their
// API endpoints.
package region

import (
	"strings"

	"github.com/commercekit/amazonpay-gateway/internal/domain"
)

var countryRegions = map[string]domain.Region{
	"US": domain.RegionUS,
	"GB": domain.RegionGB,
	"UK": domain.RegionGB,
	"JP": domain.RegionJP,

	// Amazon Pay Europe
	"AT": domain.RegionEU,
	"BE": domain.RegionEU,
	"CY": domain.RegionEU,
	"CZ": domain.RegionEU,
	"DE": domain.RegionEU,
	"DK": domain.RegionEU,
	"ES": domain.RegionEU,
	"FI": domain.RegionEU,
	"FR": domain.RegionEU,
	"HU": domain.RegionEU,
	"IE": domain.RegionEU,
	"IT": domain.RegionEU,
	"LU": domain.RegionEU,
	"NL": domain.RegionEU,
	"PT": domain.RegionEU,
	"RO": domain.RegionEU,
	"SE": domain.RegionEU,
	"SI": domain.RegionEU,
	"SK": domain.RegionEU,
}

// FromCountry resolves the platform region for a merchant country code.
// Unrecognized codes fall back to us.
func FromCountry(countryCode string) domain.Region {
	if r, ok := countryRegions[strings.ToUpper(countryCode)]; ok {
		return r
	}
	return domain.RegionUS
}

type endpoints struct {
	mws       string
	mwsPath   string
	v2        string
	widgetsJS string
}

var regionEndpoints = map[domain.Region]endpoints{
	domain.RegionUS: {
		mws:     "https://mws.amazonservices.com",
		mwsPath: "/OffAmazonPayments/2013-01-01",
		v2:      "https://pay-api.amazon.com/live",
	},
	domain.RegionGB: {
		mws:     "https://mws-eu.amazonservices.com",
		mwsPath: "/OffAmazonPayments/2013-01-01",
		v2:      "https://pay-api.amazon.eu/live",
	},
	domain.RegionEU: {
		mws:     "https://mws-eu.amazonservices.com",
		mwsPath: "/OffAmazonPayments/2013-01-01",
		v2:      "https://pay-api.amazon.eu/live",
	},
	domain.RegionJP: {
		mws:     "https://mws.amazonservices.jp",
		mwsPath: "/OffAmazonPayments/2013-01-01",
		v2:      "https://pay-api.amazon.jp/live",
	},
}

// MWSEndpoint returns the base URL and request path for the legacy XML API.
// Sandbox merchants are routed to the sandbox path on the same host.
func MWSEndpoint(r domain.Region, sandbox bool) (baseURL, path string) {
	e, ok := regionEndpoints[r]
	if !ok {
		e = regionEndpoints[domain.RegionUS]
	}
	path = e.mwsPath
	if sandbox {
		path = strings.Replace(path, "/OffAmazonPayments/", "/OffAmazonPayments_Sandbox/", 1)
	}
	return e.mws, path
}

// V2Endpoint returns the base URL for the Pay v2 JSON API.
func V2Endpoint(r domain.Region, sandbox bool) string {
	e, ok := regionEndpoints[r]
	if !ok {
		e = regionEndpoints[domain.RegionUS]
	}
	if sandbox {
		return strings.Replace(e.v2, "/live", "/sandbox", 1)
	}
	return e.v2
}

// Currency returns the ledger currency of a platform region.
func Currency(r domain.Region) string {
	switch r {
	case domain.RegionGB:
		return "GBP"
	case domain.RegionEU:
		return "EUR"
	case domain.RegionJP:
		return "JPY"
	default:
		return "USD"
	}
}
