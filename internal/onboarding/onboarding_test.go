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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sealPayload(t *testing.T, pub *rsa.PublicKey, creds Credentials) EncryptedPayload {
	t.Helper()

	plaintext, err := json.Marshal(creds)
	require.NoError(t, err)

	aesKey := make([]byte, 16)
	iv := make([]byte, aes.BlockSize)
	_, err = rand.Read(aesKey)
	require.NoError(t, err)
	_, err = rand.Read(iv)
	require.NoError(t, err)

	pad := aes.BlockSize - len(plaintext)%aes.BlockSize
	for i := 0; i < pad; i++ {
		plaintext = append(plaintext, byte(pad))
	}

	block, err := aes.NewCipher(aesKey)
	require.NoError(t, err)
	ciphertext := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, plaintext)

	encKey, err := rsa.EncryptOAEP(sha1.New(), rand.Reader, pub, aesKey, nil)
	require.NoError(t, err)

	return EncryptedPayload{
		EncryptedKey:     base64.StdEncoding.EncodeToString(encKey),
		EncryptedPayload: base64.StdEncoding.EncodeToString(ciphertext),
		IV:               base64.StdEncoding.EncodeToString(iv),
	}
}

func publicKeyOf(t *testing.T, pair *KeyPair) *rsa.PublicKey {
	t.Helper()
	der, err := base64.StdEncoding.DecodeString(pair.PublicKey)
	require.NoError(t, err)
	pub, err := x509.ParsePKIXPublicKey(der)
	require.NoError(t, err)
	return pub.(*rsa.PublicKey)
}

func TestKeyExchangeRoundTrip(t *testing.T) {
	pair, err := GenerateKeyPair()
	require.NoError(t, err)

	want := Credentials{
		MerchantID: "A2EXAMPLE",
		AccessKey:  "AKIAEXAMPLE",
		SecretKey:  "secret",
	}
	payload := sealPayload(t, publicKeyOf(t, pair), want)

	got, err := DecryptPayload(pair.PrivateKeyPEM, payload)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestDecryptPayload_WrongKey(t *testing.T) {
	sender, err := GenerateKeyPair()
	require.NoError(t, err)
	other, err := GenerateKeyPair()
	require.NoError(t, err)

	payload := sealPayload(t, publicKeyOf(t, sender), Credentials{
		MerchantID: "A2EXAMPLE", AccessKey: "k", SecretKey: "s",
	})

	_, err = DecryptPayload(other.PrivateKeyPEM, payload)
	assert.ErrorIs(t, err, ErrBadPayload)
}

func TestDecryptPayload_TamperedCiphertext(t *testing.T) {
	pair, err := GenerateKeyPair()
	require.NoError(t, err)

	payload := sealPayload(t, publicKeyOf(t, pair), Credentials{
		MerchantID: "A2EXAMPLE", AccessKey: "k", SecretKey: "s",
	})
	payload.EncryptedPayload = base64.StdEncoding.EncodeToString([]byte("garbage"))

	_, err = DecryptPayload(pair.PrivateKeyPEM, payload)
	assert.ErrorIs(t, err, ErrBadPayload)
}

func TestDecryptPayload_IncompleteCredentials(t *testing.T) {
	pair, err := GenerateKeyPair()
	require.NoError(t, err)

	payload := sealPayload(t, publicKeyOf(t, pair), Credentials{MerchantID: "A2EXAMPLE"})

	_, err = DecryptPayload(pair.PrivateKeyPEM, payload)
	assert.ErrorIs(t, err, ErrBadPayload)
}

func TestDecryptPayload_BadPrivateKey(t *testing.T) {
	_, err := DecryptPayload([]byte("not a key"), EncryptedPayload{})
	assert.ErrorIs(t, err, ErrBadPrivateKey)
}
