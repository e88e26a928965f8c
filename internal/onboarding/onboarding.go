// Package onboarding implements the merchant registration key exchange.
// The merchant generates an RSA keypair, hands the public key to the
// provider's registration flow, and receives the account credentials as
// an encrypted payload only that keypair can open.
package onboarding

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
)

const keyBits = 2048

var (
	ErrBadPrivateKey = errors.New("onboarding: invalid private key")
	ErrBadPayload    = errors.New("onboarding: payload cannot be decrypted")
)

// KeyPair is the merchant-side half of the key exchange. The public key
// travels to the provider base64-encoded in DER form.
type KeyPair struct {
	PrivateKeyPEM []byte
	PublicKey     string
}

// EncryptedPayload is the credential envelope the registration flow
// returns. All three fields are base64-encoded: an RSA-OAEP encrypted
// AES key, the AES-CBC encrypted credentials, and the IV.
type EncryptedPayload struct {
	EncryptedKey     string `json:"encryptedKey"`
	EncryptedPayload string `json:"encryptedPayload"`
	IV               string `json:"iv"`
}

// Credentials are the merchant account secrets the payload carries.
type Credentials struct {
	MerchantID string `json:"merchant_id"`
	AccessKey  string `json:"access_key"`
	SecretKey  string `json:"secret_key"`
}

// GenerateKeyPair creates the RSA keypair for one registration attempt.
func GenerateKeyPair() (*KeyPair, error) {
	key, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: mustMarshalPKCS8(key),
	})

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("marshal public key: %w", err)
	}

	return &KeyPair{
		PrivateKeyPEM: privPEM,
		PublicKey:     base64.StdEncoding.EncodeToString(pubDER),
	}, nil
}

// DecryptPayload opens the credential envelope with the registration
// keypair's private half.
func DecryptPayload(privateKeyPEM []byte, payload EncryptedPayload) (*Credentials, error) {
	key, err := parsePrivateKey(privateKeyPEM)
	if err != nil {
		return nil, err
	}

	encKey, err := base64.StdEncoding.DecodeString(payload.EncryptedKey)
	if err != nil {
		return nil, fmt.Errorf("%w: bad key encoding", ErrBadPayload)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(payload.EncryptedPayload)
	if err != nil {
		return nil, fmt.Errorf("%w: bad payload encoding", ErrBadPayload)
	}
	iv, err := base64.StdEncoding.DecodeString(payload.IV)
	if err != nil {
		return nil, fmt.Errorf("%w: bad iv encoding", ErrBadPayload)
	}

	aesKey, err := rsa.DecryptOAEP(sha1.New(), rand.Reader, key, encKey, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	plaintext, err := decryptCBC(aesKey, iv, ciphertext)
	if err != nil {
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		return nil, fmt.Errorf("%w: not valid JSON", ErrBadPayload)
	}
	if creds.MerchantID == "" || creds.AccessKey == "" || creds.SecretKey == "" {
		return nil, fmt.Errorf("%w: incomplete credentials", ErrBadPayload)
	}

	return &creds, nil
}

func decryptCBC(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if len(iv) != block.BlockSize() || len(ciphertext) == 0 || len(ciphertext)%block.BlockSize() != 0 {
		return nil, fmt.Errorf("%w: bad ciphertext length", ErrBadPayload)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return stripPKCS7(plaintext, block.BlockSize())
}

func stripPKCS7(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty plaintext", ErrBadPayload)
	}
	pad := int(data[len(data)-1])
	if pad == 0 || pad > blockSize || pad > len(data) {
		return nil, fmt.Errorf("%w: bad padding", ErrBadPayload)
	}
	for _, b := range data[len(data)-pad:] {
		if int(b) != pad {
			return nil, fmt.Errorf("%w: bad padding", ErrBadPayload)
		}
	}
	return data[:len(data)-pad], nil
}

func parsePrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, ErrBadPrivateKey
	}

	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, ErrBadPrivateKey
		}
		return rsaKey, nil
	}
	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, ErrBadPrivateKey
	}
	return key, nil
}

func mustMarshalPKCS8(key *rsa.PrivateKey) []byte {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		panic(err)
	}
	return der
}
