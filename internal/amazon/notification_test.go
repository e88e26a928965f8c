package amazon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNotificationData_Authorization(t *testing.T) {
	data := []byte(`<AuthorizationNotification>
  <AuthorizationDetails>
    <AmazonAuthorizationId>P01-1234567-1234567-A000001</AmazonAuthorizationId>
    <AuthorizationReferenceId>1042-A01</AuthorizationReferenceId>
    <AuthorizationStatus><State>Declined</State><ReasonCode>InvalidPaymentMethod</ReasonCode></AuthorizationStatus>
    <AuthorizationAmount><Amount>25.99</Amount><CurrencyCode>USD</CurrencyCode></AuthorizationAmount>
  </AuthorizationDetails>
</AuthorizationNotification>`)

	details, err := ParseNotificationData(data)
	require.NoError(t, err)

	require.NotNil(t, details.Authorization)
	assert.Equal(t, "P01-1234567-1234567-A000001", details.Authorization.AuthorizationID)
	assert.Equal(t, "1042-A01", details.Authorization.AuthorizationReferenceID)
	assert.Equal(t, StateDeclined, details.Authorization.State)
	assert.Equal(t, ReasonInvalidPaymentMethod, details.Authorization.ReasonCode)
	assert.Nil(t, details.Capture)
}

func TestParseNotificationData_CaptureNowCarriesCaptureID(t *testing.T) {
	data := []byte(`<AuthorizationNotification>
  <AuthorizationDetails>
    <AmazonAuthorizationId>P01-1234567-1234567-A000001</AmazonAuthorizationId>
    <AuthorizationStatus><State>Closed</State><ReasonCode>MaxCapturesProcessed</ReasonCode></AuthorizationStatus>
    <CaptureNow>true</CaptureNow>
    <IdList><member>P01-1234567-1234567-C000001</member></IdList>
  </AuthorizationDetails>
</AuthorizationNotification>`)

	details, err := ParseNotificationData(data)
	require.NoError(t, err)

	require.NotNil(t, details.Authorization)
	assert.True(t, details.Authorization.CaptureNow)
	assert.Equal(t, "P01-1234567-1234567-C000001", details.Authorization.CaptureID)
}

func TestParseNotificationData_Refund(t *testing.T) {
	data := []byte(`<RefundNotification>
  <RefundDetails>
    <AmazonRefundId>P01-1234567-1234567-R000001</AmazonRefundId>
    <RefundReferenceId>1042-R01</RefundReferenceId>
    <RefundStatus><State>Completed</State></RefundStatus>
    <RefundAmount><Amount>10.00</Amount><CurrencyCode>USD</CurrencyCode></RefundAmount>
  </RefundDetails>
</RefundNotification>`)

	details, err := ParseNotificationData(data)
	require.NoError(t, err)

	require.NotNil(t, details.Refund)
	assert.Equal(t, "P01-1234567-1234567-R000001", details.Refund.RefundID)
	assert.Equal(t, StateCompleted, details.Refund.State)
}

func TestParseNotificationData_OrderReference(t *testing.T) {
	data := []byte(`<OrderReferenceNotification>
  <OrderReference>
    <AmazonOrderReferenceId>P01-1234567-1234567</AmazonOrderReferenceId>
    <OrderReferenceStatus><State>Closed</State></OrderReferenceStatus>
  </OrderReference>
</OrderReferenceNotification>`)

	details, err := ParseNotificationData(data)
	require.NoError(t, err)

	require.NotNil(t, details.OrderReference)
	assert.Equal(t, "P01-1234567-1234567", details.OrderReference.ReferenceID)
	assert.Equal(t, StateClosed, details.OrderReference.State)
}

func TestParseNotificationData_RejectsDoctype(t *testing.T) {
	data := []byte(`<!DOCTYPE foo [<!ENTITY bar "baz">]><AuthorizationNotification/>`)

	_, err := ParseNotificationData(data)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseNotificationData_NoDetailBlock(t *testing.T) {
	_, err := ParseNotificationData([]byte(`<SomethingElse><Foo/></SomethingElse>`))
	assert.ErrorIs(t, err, ErrMalformedResponse)
}
