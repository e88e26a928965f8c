package amazon

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/commercekit/amazonpay-gateway/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLegacyClient(t *testing.T, handler http.HandlerFunc) (*LegacyClient, *url.Values) {
	t.Helper()

	var captured url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := NewLegacyClient(LegacyConfig{
		SellerID:  "A2EXAMPLE",
		AccessKey: "AKIAEXAMPLE",
		SecretKey: "secret",
		BaseURL:   srv.URL,
		Path:      "/OffAmazonPayments/2013-01-01",
	}, discardLogger())

	return client, &captured
}

func TestLegacyClient_Authorize_SendsSignedQuery(t *testing.T) {
	client, captured := newTestLegacyClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<AuthorizeResponse><AuthorizeResult>
  <AuthorizationDetails>
    <AmazonAuthorizationId>P01-1234567-1234567-A000001</AmazonAuthorizationId>
    <AuthorizationStatus><State>Open</State></AuthorizationStatus>
    <AuthorizationAmount><Amount>25.99</Amount><CurrencyCode>USD</CurrencyCode></AuthorizationAmount>
  </AuthorizationDetails>
</AuthorizeResult></AuthorizeResponse>`))
	})

	details, err := client.Authorize(context.Background(), AuthorizeRequest{
		ReferenceID:              "P01-1234567-1234567",
		AuthorizationReferenceID: "1042-A01",
		Amount:                   domain.Money{Amount: decimal.RequireFromString("25.99"), Currency: "USD"},
		CaptureNow:               true,
	})
	require.NoError(t, err)

	assert.Equal(t, "P01-1234567-1234567-A000001", details.AuthorizationID)
	assert.Equal(t, StateOpen, details.State)

	q := *captured
	assert.Equal(t, "Authorize", q.Get("Action"))
	assert.Equal(t, "A2EXAMPLE", q.Get("SellerId"))
	assert.Equal(t, "2013-01-01", q.Get("Version"))
	assert.Equal(t, "2", q.Get("SignatureVersion"))
	assert.Equal(t, "HmacSHA256", q.Get("SignatureMethod"))
	assert.Equal(t, "25.99", q.Get("AuthorizationAmount.Amount"))
	assert.Equal(t, "true", q.Get("CaptureNow"))
	assert.NotEmpty(t, q.Get("Signature"))
	assert.NotEmpty(t, q.Get("Timestamp"))
}

func TestLegacyClient_Authorize_AsyncTimeoutParam(t *testing.T) {
	client, captured := newTestLegacyClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<AuthorizeResponse><AuthorizeResult>
  <AuthorizationDetails>
    <AmazonAuthorizationId>P01-1234567-1234567-A000001</AmazonAuthorizationId>
    <AuthorizationStatus><State>Pending</State></AuthorizationStatus>
  </AuthorizationDetails>
</AuthorizeResult></AuthorizeResponse>`))
	})

	timeout := 1440
	details, err := client.Authorize(context.Background(), AuthorizeRequest{
		ReferenceID:              "P01-1234567-1234567",
		AuthorizationReferenceID: "1042-A01",
		Amount:                   domain.Money{Amount: decimal.RequireFromString("25.99"), Currency: "USD"},
		TransactionTimeoutMins:   &timeout,
	})
	require.NoError(t, err)

	assert.Equal(t, StatePending, details.State)
	assert.Equal(t, "1440", (*captured).Get("TransactionTimeout"))
}

func TestLegacyClient_ErrorResponse(t *testing.T) {
	client, _ := newTestLegacyClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`<ErrorResponse><Error>
  <Code>OrderReferenceNotModifiable</Code>
  <Message>Order reference is not in a modifiable state</Message>
</Error></ErrorResponse>`))
	})

	_, err := client.GetAuthorizationDetails(context.Background(), "P01-1234567-1234567-A000001")

	pe, ok := IsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, "OrderReferenceNotModifiable", pe.Code)
	assert.Equal(t, http.StatusNotFound, pe.StatusCode)
}

func TestLegacyClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewLegacyClient(LegacyConfig{
		SellerID:  "A2EXAMPLE",
		AccessKey: "AKIAEXAMPLE",
		SecretKey: "secret",
		BaseURL:   srv.URL,
		Path:      "/OffAmazonPayments/2013-01-01",
	}, discardLogger())
	srv.Close()

	err := client.CloseOrderReference(context.Background(), "P01-1234567-1234567")

	te, ok := IsTransportError(err)
	require.True(t, ok)
	assert.Equal(t, "CloseOrderReference", te.Op)
}

func TestLegacyClient_Refund_SendsAmountAndNote(t *testing.T) {
	client, captured := newTestLegacyClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<RefundResponse><RefundResult>
  <RefundDetails>
    <AmazonRefundId>P01-1234567-1234567-R000001</AmazonRefundId>
    <RefundStatus><State>Pending</State></RefundStatus>
  </RefundDetails>
</RefundResult></RefundResponse>`))
	})

	details, err := client.Refund(context.Background(), RefundRequest{
		CaptureID:         "P01-1234567-1234567-C000001",
		RefundReferenceID: "1042-R01",
		Amount:            domain.Money{Amount: decimal.RequireFromString("10.00"), Currency: "USD"},
		SellerRefundNote:  "Customer request",
	})
	require.NoError(t, err)

	assert.Equal(t, "P01-1234567-1234567-R000001", details.RefundID)

	q := *captured
	assert.Equal(t, "Refund", q.Get("Action"))
	assert.Equal(t, "P01-1234567-1234567-C000001", q.Get("AmazonCaptureId"))
	assert.Equal(t, "10.00", q.Get("RefundAmount.Amount"))
	assert.Equal(t, "Customer request", q.Get("SellerRefundNote"))
}
