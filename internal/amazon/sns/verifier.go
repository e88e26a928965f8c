package sns

import (
	"context"
	"crypto"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"
)

var (
	ErrMissingField        = errors.New("notification missing required field")
	ErrBadSignatureVersion = errors.New("unsupported signature version")
	ErrBadCertURL          = errors.New("signing certificate URL rejected")
	ErrBadSignature        = errors.New("signature verification failed")
)

// Certificates may only come from the publisher's own hosts.
var certHostPattern = regexp.MustCompile(`^sns\.[a-zA-Z0-9\-]{3,}\.amazonaws\.com(\.cn)?$`)

// CertFetcher retrieves a signing certificate by URL. The HTTP
// implementation caches certificates; tests substitute a local source.
type CertFetcher interface {
	Fetch(ctx context.Context, certURL string) (*x509.Certificate, error)
}

// HTTPCertFetcher downloads signing certificates and caches them by URL.
// Certificates rotate rarely, so entries live for the fetcher's lifetime.
type HTTPCertFetcher struct {
	client *http.Client

	mu    sync.RWMutex
	cache map[string]*x509.Certificate
}

func NewHTTPCertFetcher() *HTTPCertFetcher {
	return &HTTPCertFetcher{
		client: &http.Client{Timeout: 10 * time.Second},
		cache:  make(map[string]*x509.Certificate),
	}
}

func (f *HTTPCertFetcher) Fetch(ctx context.Context, certURL string) (*x509.Certificate, error) {
	f.mu.RLock()
	cert, ok := f.cache[certURL]
	f.mu.RUnlock()
	if ok {
		return cert, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, certURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating certificate request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching signing certificate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching signing certificate", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading signing certificate: %w", err)
	}

	cert, err = parseCertificate(body)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.cache[certURL] = cert
	f.mu.Unlock()
	return cert, nil
}

func parseCertificate(pemData []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New("no PEM block in signing certificate")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("invalid signing certificate: %w", err)
	}
	return cert, nil
}

// Verifier checks notification authenticity before any payload is trusted.
type Verifier struct {
	certs  CertFetcher
	logger *slog.Logger
}

func NewVerifier(certs CertFetcher, logger *slog.Logger) *Verifier {
	return &Verifier{certs: certs, logger: logger}
}

// requiredFields must be present on every message regardless of type.
var requiredFields = []string{"Type", "MessageId", "TopicArn", "Message", "Timestamp", "Signature", "SignatureVersion"}

func (m *Message) fieldValues() map[string]string {
	return map[string]string{
		"Type":             m.Type,
		"MessageId":        m.MessageID,
		"TopicArn":         m.TopicArn,
		"Subject":          m.Subject,
		"Message":          m.Message,
		"Timestamp":        m.Timestamp,
		"Signature":        m.Signature,
		"SignatureVersion": m.SignatureVersion,
		"SubscribeURL":     m.SubscribeURL,
		"Token":            m.Token,
	}
}

// Verify validates a message end to end: required fields, signature
// version, certificate origin, and the RSA signature itself. The cert URL
// is validated before any fetch happens.
func (v *Verifier) Verify(ctx context.Context, msg *Message) error {
	values := msg.fieldValues()
	for _, field := range requiredFields {
		if values[field] == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, field)
		}
	}
	if msg.SigningCertURL == "" {
		return fmt.Errorf("%w: SigningCertURL", ErrMissingField)
	}

	if msg.SignatureVersion != "1" {
		return fmt.Errorf("%w: %q", ErrBadSignatureVersion, msg.SignatureVersion)
	}

	if err := validateCertURL(msg.SigningCertURL); err != nil {
		return err
	}

	canonical, err := canonicalString(msg)
	if err != nil {
		return err
	}

	signature, err := base64.StdEncoding.DecodeString(msg.Signature)
	if err != nil {
		return fmt.Errorf("%w: signature is not valid base64", ErrBadSignature)
	}

	cert, err := v.certs.Fetch(ctx, msg.SigningCertURL)
	if err != nil {
		return err
	}

	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: certificate does not carry an RSA key", ErrBadSignature)
	}

	digest := sha1.Sum([]byte(canonical))
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA1, digest[:], signature); err != nil {
		v.logger.Warn("notification signature rejected", "message_id", msg.MessageID, "type", msg.Type)
		return ErrBadSignature
	}
	return nil
}

func validateCertURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadCertURL, err)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be https", ErrBadCertURL)
	}
	if !strings.HasSuffix(u.Path, ".pem") {
		return fmt.Errorf("%w: path must end in .pem", ErrBadCertURL)
	}
	if !certHostPattern.MatchString(u.Hostname()) {
		return fmt.Errorf("%w: host %q is not a notification host", ErrBadCertURL, u.Hostname())
	}
	return nil
}

// canonicalSigningKeys is the full key ordering; each message type signs
// the subset of these keys it carries.
var canonicalSigningKeys = []string{"Message", "MessageId", "Subject", "SubscribeURL", "Timestamp", "Token", "TopicArn", "Type"}

var signedKeysByType = map[string]map[string]bool{
	"Notification": {
		"Message": true, "MessageId": true, "Subject": true,
		"Timestamp": true, "TopicArn": true, "Type": true,
	},
	"SubscriptionConfirmation": {
		"Message": true, "MessageId": true, "SubscribeURL": true,
		"Timestamp": true, "Token": true, "TopicArn": true, "Type": true,
	},
	"UnsubscribeConfirmation": {
		"Message": true, "MessageId": true, "SubscribeURL": true,
		"Timestamp": true, "Token": true, "TopicArn": true, "Type": true,
	},
}

// canonicalString rebuilds the signed "{key}\n{value}\n" sequence for the
// message's type. Optional keys that are empty are skipped.
func canonicalString(msg *Message) (string, error) {
	signed, ok := signedKeysByType[msg.Type]
	if !ok {
		return "", fmt.Errorf("%w: unknown message type %q", ErrBadSignature, msg.Type)
	}

	values := msg.fieldValues()
	var b strings.Builder
	for _, key := range canonicalSigningKeys {
		if !signed[key] {
			continue
		}
		value := values[key]
		if value == "" && key == "Subject" {
			continue
		}
		b.WriteString(key)
		b.WriteString("\n")
		b.WriteString(value)
		b.WriteString("\n")
	}
	return b.String(), nil
}
