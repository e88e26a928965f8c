package amazon

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse_RejectsDoctype(t *testing.T) {
	body := []byte(`<?xml version="1.0"?>
<!DOCTYPE foo [<!ENTITY xxe SYSTEM "file:///etc/passwd">]>
<AuthorizeResponse><AuthorizeResult/></AuthorizeResponse>`)

	env, err := parseResponse(body, http.StatusOK)

	assert.Nil(t, env)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseResponse_MalformedXML(t *testing.T) {
	env, err := parseResponse([]byte(`<AuthorizeResponse><unclosed`), http.StatusOK)

	assert.Nil(t, env)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseResponse_ErrorBecomesProviderError(t *testing.T) {
	body := []byte(`<ErrorResponse>
  <Error>
    <Code>InvalidParameterValue</Code>
    <Message>Value 9x9 is not valid</Message>
  </Error>
</ErrorResponse>`)

	env, err := parseResponse(body, http.StatusBadRequest)

	assert.Nil(t, env)
	pe, ok := IsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, "InvalidParameterValue", pe.Code)
	assert.Equal(t, "Value 9x9 is not valid", pe.Message)
	assert.Equal(t, http.StatusBadRequest, pe.StatusCode)
}

func TestParseResponse_ErrorWithoutCode_UsesDefault(t *testing.T) {
	body := []byte(`<ErrorResponse><Error><Message>boom</Message></Error></ErrorResponse>`)

	_, err := parseResponse(body, http.StatusInternalServerError)

	pe, ok := IsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, DefaultErrorCode, pe.Code)
}

func TestParseResponse_AuthorizationEnvelopes(t *testing.T) {
	// The same details block parses out of every envelope that can carry it.
	envelopes := []string{"AuthorizeResult", "AuthorizeOnBillingAgreementResult", "GetAuthorizationDetailsResult"}

	for _, wrapper := range envelopes {
		t.Run(wrapper, func(t *testing.T) {
			body := []byte(`<Response><` + wrapper + `>
  <AuthorizationDetails>
    <AmazonAuthorizationId>P01-1234567-1234567-A000001</AmazonAuthorizationId>
    <AuthorizationAmount><Amount>25.99</Amount><CurrencyCode>USD</CurrencyCode></AuthorizationAmount>
    <AuthorizationStatus><State>Open</State></AuthorizationStatus>
  </AuthorizationDetails>
</` + wrapper + `></Response>`)

			env, err := parseResponse(body, http.StatusOK)
			require.NoError(t, err)

			details := env.authorizationDetails()
			require.NotNil(t, details)
			assert.Equal(t, "P01-1234567-1234567-A000001", details.AuthorizationID)
			assert.Equal(t, StateOpen, details.State)
			assert.Equal(t, "25.99 USD", details.Amount.String())
		})
	}
}

func TestParseResponse_CaptureNowExposesCaptureID(t *testing.T) {
	body := []byte(`<AuthorizeResponse><AuthorizeResult>
  <AuthorizationDetails>
    <AmazonAuthorizationId>P01-1234567-1234567-A000001</AmazonAuthorizationId>
    <AuthorizationStatus><State>Closed</State><ReasonCode>MaxCapturesProcessed</ReasonCode></AuthorizationStatus>
    <CaptureNow>true</CaptureNow>
    <IdList><member>P01-1234567-1234567-C000001</member></IdList>
  </AuthorizationDetails>
</AuthorizeResult></AuthorizeResponse>`)

	env, err := parseResponse(body, http.StatusOK)
	require.NoError(t, err)

	details := env.authorizationDetails()
	require.NotNil(t, details)
	assert.True(t, details.CaptureNow)
	assert.Equal(t, "P01-1234567-1234567-C000001", details.CaptureID)
}

func TestParseResponse_RefundDetails(t *testing.T) {
	body := []byte(`<RefundResponse><RefundResult>
  <RefundDetails>
    <AmazonRefundId>P01-1234567-1234567-R000001</AmazonRefundId>
    <RefundAmount><Amount>10.00</Amount><CurrencyCode>EUR</CurrencyCode></RefundAmount>
    <RefundStatus><State>Pending</State></RefundStatus>
  </RefundDetails>
</RefundResult></RefundResponse>`)

	env, err := parseResponse(body, http.StatusOK)
	require.NoError(t, err)

	details := env.refundDetails()
	require.NotNil(t, details)
	assert.Equal(t, "P01-1234567-1234567-R000001", details.RefundID)
	assert.Equal(t, StatePending, details.State)
}

func TestParseResponse_OrderReferenceWithDestination(t *testing.T) {
	body := []byte(`<GetOrderReferenceDetailsResponse><GetOrderReferenceDetailsResult>
  <OrderReferenceDetails>
    <AmazonOrderReferenceId>P01-1234567-1234567</AmazonOrderReferenceId>
    <OrderReferenceStatus><State>Open</State></OrderReferenceStatus>
    <Buyer><Name>Jane Doe</Name><Email>jane@example.com</Email></Buyer>
    <Destination>
      <PhysicalDestination>
        <Name>Jane Doe</Name>
        <AddressLine1>440 Terry Ave N</AddressLine1>
        <City>Seattle</City>
        <StateOrRegion>WA</StateOrRegion>
        <PostalCode>98109</PostalCode>
        <CountryCode>US</CountryCode>
      </PhysicalDestination>
    </Destination>
  </OrderReferenceDetails>
</GetOrderReferenceDetailsResult></GetOrderReferenceDetailsResponse>`)

	env, err := parseResponse(body, http.StatusOK)
	require.NoError(t, err)

	details := env.orderReferenceDetails()
	require.NotNil(t, details)
	assert.Equal(t, "P01-1234567-1234567", details.ReferenceID)
	assert.Equal(t, "jane@example.com", details.Buyer.Email)
	assert.Equal(t, "Seattle", details.Destination.City)
	assert.Equal(t, "US", details.Destination.CountryCode)
}

func TestParseResponse_NoMatchingEnvelope(t *testing.T) {
	env, err := parseResponse([]byte(`<CloseAuthorizationResponse/>`), http.StatusOK)
	require.NoError(t, err)

	assert.Nil(t, env.authorizationDetails())
	assert.Nil(t, env.captureDetails())
	assert.Nil(t, env.refundDetails())
	assert.Nil(t, env.orderReferenceDetails())
}

func TestTranslateChargeState(t *testing.T) {
	tests := []struct {
		v2State  string
		expected string
	}{
		{"AuthorizationInitiated", StatePending},
		{"CaptureInitiated", StatePending},
		{"Authorized", StateOpen},
		{"Captured", StateCompleted},
		{"Completed", StateCompleted},
		{"Declined", StateDeclined},
		{"Canceled", StateClosed},
		{"SomethingNew", "SomethingNew"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, translateChargeState(tt.v2State), tt.v2State)
	}
}

func TestTranslateReasonCode(t *testing.T) {
	assert.Equal(t, ReasonInvalidPaymentMethod, translateReasonCode("SoftDeclined"))
	assert.Equal(t, ReasonAmazonRejected, translateReasonCode("HardDeclined"))
	assert.Equal(t, ReasonTransactionTimedOut, translateReasonCode(ReasonTransactionTimedOut))
}
