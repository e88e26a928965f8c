package region

import (
	"testing"

	"github.com/commercekit/amazonpay-gateway/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFromCountry_KnownCodes(t *testing.T) {
	cases := map[string]domain.Region{
		"US": domain.RegionUS,
		"us": domain.RegionUS,
		"GB": domain.RegionGB,
		"UK": domain.RegionGB,
		"DE": domain.RegionEU,
		"fr": domain.RegionEU,
		"JP": domain.RegionJP,
	}
	for code, want := range cases {
		assert.Equal(t, want, FromCountry(code), "country %s", code)
	}
}

func TestFromCountry_UnknownDefaultsToUS(t *testing.T) {
	for _, code := range []string{"BR", "AU", "ZZ", ""} {
		assert.Equal(t, domain.RegionUS, FromCountry(code), "country %q", code)
	}
}

func TestFromCountry_AlwaysReturnsSupportedRegion(t *testing.T) {
	supported := map[domain.Region]bool{
		domain.RegionUS: true,
		domain.RegionGB: true,
		domain.RegionEU: true,
		domain.RegionJP: true,
	}
	for _, code := range []string{"US", "GB", "DE", "JP", "XX", "NL", "KR"} {
		assert.True(t, supported[FromCountry(code)], "country %s", code)
	}
}

func TestMWSEndpoint_SandboxPath(t *testing.T) {
	base, path := MWSEndpoint(domain.RegionUS, false)
	assert.Equal(t, "https://mws.amazonservices.com", base)
	assert.Equal(t, "/OffAmazonPayments/2013-01-01", path)

	_, sandboxPath := MWSEndpoint(domain.RegionUS, true)
	assert.Equal(t, "/OffAmazonPayments_Sandbox/2013-01-01", sandboxPath)
}

func TestV2Endpoint_Sandbox(t *testing.T) {
	assert.Equal(t, "https://pay-api.amazon.eu/live", V2Endpoint(domain.RegionEU, false))
	assert.Equal(t, "https://pay-api.amazon.eu/sandbox", V2Endpoint(domain.RegionEU, true))
}
