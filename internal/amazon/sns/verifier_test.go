package sns

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"io"
	"log/slog"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCertFetcher struct {
	cert    *x509.Certificate
	fetched bool
}

func (f *staticCertFetcher) Fetch(_ context.Context, _ string) (*x509.Certificate, error) {
	f.fetched = true
	return f.cert, nil
}

type signingFixture struct {
	key     *rsa.PrivateKey
	fetcher *staticCertFetcher
}

func newSigningFixture(t *testing.T) *signingFixture {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "sns.us-east-1.amazonaws.com"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	return &signingFixture{key: key, fetcher: &staticCertFetcher{cert: cert}}
}

func (f *signingFixture) sign(t *testing.T, msg *Message) {
	t.Helper()

	canonical, err := canonicalString(msg)
	require.NoError(t, err)

	digest := sha1.Sum([]byte(canonical))
	sig, err := rsa.SignPKCS1v15(rand.Reader, f.key, crypto.SHA1, digest[:])
	require.NoError(t, err)
	msg.Signature = base64.StdEncoding.EncodeToString(sig)
}

func testVerifier(fetcher CertFetcher) *Verifier {
	return NewVerifier(fetcher, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func validNotification() *Message {
	return &Message{
		Type:             "Notification",
		MessageID:        "22b80b92-fdea-4c2c-8f9d-bdfb0c7bf324",
		TopicArn:         "arn:aws:sns:us-east-1:123456789012:payment-events",
		Subject:          "AmazonPay Notification",
		Message:          `{"NotificationType":"PaymentAuthorize","NotificationData":"<x/>"}`,
		Timestamp:        "2026-08-30T12:00:00.000Z",
		SignatureVersion: "1",
		SigningCertURL:   "https://sns.us-east-1.amazonaws.com/SimpleNotificationService-abc123.pem",
	}
}

func TestVerify_ValidNotification(t *testing.T) {
	fix := newSigningFixture(t)
	msg := validNotification()
	fix.sign(t, msg)

	err := testVerifier(fix.fetcher).Verify(context.Background(), msg)
	assert.NoError(t, err)
}

func TestVerify_ValidSubscriptionConfirmation(t *testing.T) {
	fix := newSigningFixture(t)
	msg := &Message{
		Type:             "SubscriptionConfirmation",
		MessageID:        "165545c9-2a5c-472c-8df2-7ff2be2b3b1b",
		TopicArn:         "arn:aws:sns:us-east-1:123456789012:payment-events",
		Message:          "You have chosen to subscribe",
		Timestamp:        "2026-08-30T12:00:00.000Z",
		Token:            "2336412f37",
		SubscribeURL:     "https://sns.us-east-1.amazonaws.com/?Action=ConfirmSubscription",
		SignatureVersion: "1",
		SigningCertURL:   "https://sns.us-east-1.amazonaws.com/SimpleNotificationService-abc123.pem",
	}
	fix.sign(t, msg)

	err := testVerifier(fix.fetcher).Verify(context.Background(), msg)
	assert.NoError(t, err)
}

func TestVerify_TamperedMessage(t *testing.T) {
	fix := newSigningFixture(t)
	msg := validNotification()
	fix.sign(t, msg)
	msg.Message = `{"NotificationType":"PaymentAuthorize","NotificationData":"<tampered/>"}`

	err := testVerifier(fix.fetcher).Verify(context.Background(), msg)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerify_MissingRequiredFields(t *testing.T) {
	fix := newSigningFixture(t)

	for _, field := range []string{"Type", "MessageId", "TopicArn", "Message", "Timestamp", "Signature", "SignatureVersion"} {
		t.Run(field, func(t *testing.T) {
			msg := validNotification()
			fix.sign(t, msg)
			switch field {
			case "Type":
				msg.Type = ""
			case "MessageId":
				msg.MessageID = ""
			case "TopicArn":
				msg.TopicArn = ""
			case "Message":
				msg.Message = ""
			case "Timestamp":
				msg.Timestamp = ""
			case "Signature":
				msg.Signature = ""
			case "SignatureVersion":
				msg.SignatureVersion = ""
			}

			err := testVerifier(fix.fetcher).Verify(context.Background(), msg)
			assert.ErrorIs(t, err, ErrMissingField)
		})
	}
}

func TestVerify_RejectsUnknownSignatureVersion(t *testing.T) {
	fix := newSigningFixture(t)
	msg := validNotification()
	fix.sign(t, msg)
	msg.SignatureVersion = "2"

	err := testVerifier(fix.fetcher).Verify(context.Background(), msg)
	assert.ErrorIs(t, err, ErrBadSignatureVersion)
}

func TestVerify_RejectsForeignCertHostBeforeFetch(t *testing.T) {
	fix := newSigningFixture(t)

	badURLs := []string{
		"https://evil.com/cert.pem",
		"https://sns.us-east-1.amazonaws.com.evil.com/cert.pem",
		"http://sns.us-east-1.amazonaws.com/cert.pem",
		"https://sns.us-east-1.amazonaws.com/cert.txt",
		"https://sns.us.amazonaws.com/cert.pem",
	}

	for _, certURL := range badURLs {
		t.Run(certURL, func(t *testing.T) {
			fix.fetcher.fetched = false
			msg := validNotification()
			fix.sign(t, msg)
			msg.SigningCertURL = certURL

			err := testVerifier(fix.fetcher).Verify(context.Background(), msg)
			assert.ErrorIs(t, err, ErrBadCertURL)
			assert.False(t, fix.fetcher.fetched, "certificate must not be fetched for a rejected URL")
		})
	}
}

func TestVerify_AcceptsChinaRegionCertHost(t *testing.T) {
	fix := newSigningFixture(t)
	msg := validNotification()
	fix.sign(t, msg)
	msg.SigningCertURL = "https://sns.cn-north-1.amazonaws.com.cn/SimpleNotificationService-abc123.pem"

	err := testVerifier(fix.fetcher).Verify(context.Background(), msg)
	assert.NoError(t, err)
}

func TestVerify_UnknownType(t *testing.T) {
	fix := newSigningFixture(t)
	msg := validNotification()
	fix.sign(t, msg)
	msg.Type = "SomethingElse"

	err := testVerifier(fix.fetcher).Verify(context.Background(), msg)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestParseMessage_AlternateCasing(t *testing.T) {
	body := []byte(`{
  "Type": "Notification",
  "MessageId": "m-1",
  "SigningCertUrl": "https://sns.eu-west-1.amazonaws.com/cert.pem",
  "SubscribeUrl": "https://sns.eu-west-1.amazonaws.com/?Action=ConfirmSubscription"
}`)

	msg, err := ParseMessage(body)
	require.NoError(t, err)

	assert.Equal(t, "https://sns.eu-west-1.amazonaws.com/cert.pem", msg.SigningCertURL)
	assert.Equal(t, "https://sns.eu-west-1.amazonaws.com/?Action=ConfirmSubscription", msg.SubscribeURL)
}

func TestDecodeNotification(t *testing.T) {
	msg := &Message{
		Message: `{"NotificationType":"PaymentAuthorize","NotificationReferenceId":"n-1","SellerId":"A2EXAMPLE","NotificationData":"<AuthorizationNotification/>"}`,
	}

	n, err := DecodeNotification(msg)
	require.NoError(t, err)
	assert.Equal(t, "PaymentAuthorize", n.NotificationType)
	assert.Equal(t, "A2EXAMPLE", n.SellerID)
	assert.Equal(t, "<AuthorizationNotification/>", n.NotificationData)
}

func TestDecodeNotification_MissingType(t *testing.T) {
	_, err := DecodeNotification(&Message{Message: `{"NotificationData":"<x/>"}`})
	assert.Error(t, err)
}

func TestDecodeNotification_RejectsIncompletePayloads(t *testing.T) {
	cases := map[string]string{
		"not json":     `this is not json`,
		"no reference": `{"NotificationType":"PaymentAuthorize","SellerId":"A2EXAMPLE","NotificationData":"<x/>"}`,
		"no seller":    `{"NotificationType":"PaymentAuthorize","NotificationReferenceId":"n-1","NotificationData":"<x/>"}`,
		"no data":      `{"NotificationType":"PaymentAuthorize","NotificationReferenceId":"n-1","SellerId":"A2EXAMPLE"}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeNotification(&Message{Message: payload})
			assert.Error(t, err)
		})
	}
}
