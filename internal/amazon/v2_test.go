package amazon

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/commercekit/amazonpay-gateway/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPrivateKeyPEM(t *testing.T) []byte {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

type capturedRequest struct {
	method  string
	path    string
	headers http.Header
	body    map[string]any
}

func newTestV2Client(t *testing.T, handler http.HandlerFunc) (*V2Client, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.headers = r.Header.Clone()
		captured.body = map[string]any{}
		json.NewDecoder(r.Body).Decode(&captured.body)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := NewV2Client(V2Config{
		MerchantID:  "A2EXAMPLE",
		StoreID:     "amzn1.application-oa2-client.example",
		PublicKeyID: "PUBLICKEYID",
		PrivateKey:  testPrivateKeyPEM(t),
		BaseURL:     srv.URL,
		RegionCode:  "us",
	}, discardLogger())
	require.NoError(t, err)

	return client, captured
}

func TestV2Client_Authorize_SignsAndTranslates(t *testing.T) {
	client, captured := newTestV2Client(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
  "chargeId": "S01-1234567-1234567-C000001",
  "chargePermissionId": "S01-1234567-1234567",
  "chargeAmount": {"amount": "25.99", "currencyCode": "USD"},
  "statusDetails": {"state": "Authorized"}
}`))
	})

	details, err := client.Authorize(context.Background(), AuthorizeRequest{
		ReferenceID:              "S01-1234567-1234567",
		AuthorizationReferenceID: "1042-A01",
		Amount:                   domain.Money{Amount: decimal.RequireFromString("25.99"), Currency: "USD"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "/v2/charges", captured.path)
	assert.Equal(t, "S01-1234567-1234567", captured.body["chargePermissionId"])
	assert.Equal(t, false, captured.body["captureNow"])

	auth := captured.headers.Get("Authorization")
	assert.True(t, strings.HasPrefix(auth, "AMZN-PAY-RSASSA-PSS"), "authorization header %q", auth)
	assert.Contains(t, auth, "PublicKeyId=PUBLICKEYID")
	assert.NotEmpty(t, captured.headers.Get("X-Amz-Pay-Idempotency-Key"))
	assert.NotEmpty(t, captured.headers.Get("X-Amz-Pay-Date"))

	assert.Equal(t, "S01-1234567-1234567-C000001", details.AuthorizationID)
	assert.Equal(t, StateOpen, details.State)
}

func TestV2Client_Authorize_CaptureNowReportsCapture(t *testing.T) {
	client, _ := newTestV2Client(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
  "chargeId": "S01-1234567-1234567-C000001",
  "chargePermissionId": "S01-1234567-1234567",
  "chargeAmount": {"amount": "25.99", "currencyCode": "USD"},
  "captureAmount": {"amount": "25.99", "currencyCode": "USD"},
  "statusDetails": {"state": "Captured"}
}`))
	})

	details, err := client.Authorize(context.Background(), AuthorizeRequest{
		ReferenceID: "S01-1234567-1234567",
		Amount:      domain.Money{Amount: decimal.RequireFromString("25.99"), Currency: "USD"},
		CaptureNow:  true,
	})
	require.NoError(t, err)

	assert.True(t, details.CaptureNow)
	assert.Equal(t, "S01-1234567-1234567-C000001", details.CaptureID)
	assert.Equal(t, StateCompleted, details.State)
}

func TestV2Client_Authorize_SoftDeclineTranslated(t *testing.T) {
	client, _ := newTestV2Client(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
  "chargeId": "S01-1234567-1234567-C000001",
  "chargePermissionId": "S01-1234567-1234567",
  "chargeAmount": {"amount": "25.99", "currencyCode": "USD"},
  "statusDetails": {"state": "Declined", "reasonCode": "SoftDeclined"}
}`))
	})

	details, err := client.Authorize(context.Background(), AuthorizeRequest{
		ReferenceID: "S01-1234567-1234567",
		Amount:      domain.Money{Amount: decimal.RequireFromString("25.99"), Currency: "USD"},
	})
	require.NoError(t, err)

	assert.Equal(t, StateDeclined, details.State)
	assert.Equal(t, ReasonInvalidPaymentMethod, details.ReasonCode)
}

func TestV2Client_GetOrderReferenceDetails_MapsChargePermission(t *testing.T) {
	client, captured := newTestV2Client(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
  "chargePermissionId": "S01-1234567-1234567",
  "statusDetails": {"state": "Chargeable"},
  "buyer": {"name": "Jane Doe", "email": "jane@example.com"},
  "shippingAddress": {
    "name": "Jane Doe",
    "addressLine1": "440 Terry Ave N",
    "city": "Seattle",
    "stateOrRegion": "WA",
    "postalCode": "98109",
    "countryCode": "US"
  }
}`))
	})

	ref, err := client.GetOrderReferenceDetails(context.Background(), "S01-1234567-1234567", "")
	require.NoError(t, err)

	assert.Equal(t, "/v2/chargePermissions/S01-1234567-1234567", captured.path)
	assert.Equal(t, StateOpen, ref.State)
	assert.Equal(t, "jane@example.com", ref.Buyer.Email)
	assert.Equal(t, "Seattle", ref.Destination.City)
}

func TestV2Client_ErrorResponseBecomesProviderError(t *testing.T) {
	client, _ := newTestV2Client(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"reasonCode": "TransactionAmountExceeded", "message": "Capture amount too high"}`))
	})

	_, err := client.Capture(context.Background(), CaptureRequest{
		AuthorizationID: "S01-1234567-1234567-C000001",
		Amount:          domain.Money{Amount: decimal.RequireFromString("999.00"), Currency: "USD"},
	})

	provErr, ok := IsProviderError(err)
	require.True(t, ok, "expected ProviderError, got %v", err)
	assert.Equal(t, "TransactionAmountExceeded", provErr.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, provErr.StatusCode)
}

func TestV2Client_MalformedResponse(t *testing.T) {
	client, _ := newTestV2Client(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	})

	_, err := client.GetRefundDetails(context.Background(), "S01-1234567-1234567-R000001")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestV2Client_RefusesBadPrivateKey(t *testing.T) {
	_, err := NewV2Client(V2Config{
		PublicKeyID: "PUBLICKEYID",
		PrivateKey:  []byte("not a key"),
		BaseURL:     "https://pay-api.amazon.com/live",
	}, discardLogger())
	assert.Error(t, err)
}
