// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	keySize = 32

	// p256PointSize is the length of an uncompressed P-256 point.
	p256PointSize = 65

	eciesInfo     = "vault transmission key"
	clientIDLabel = "KEEPER_SECRETS_MANAGER_CLIENT_ID"
)

// keyChainService is the private implementation of [KeyChainService].
type keyChainService struct {
	random io.Reader
}

// NewKeyChainService constructs a [KeyChainService] backed by the OS CSPRNG.
func NewKeyChainService() KeyChainService {
	return &keyChainService{random: rand.Reader}
}

// GenerateKey implements [KeyChainService].
func (k *keyChainService) GenerateKey() ([]byte, error) {
	key := make([]byte, keySize)
	if _, err := io.ReadFull(k.random, key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return key, nil
}

// Encrypt implements [KeyChainService]. A random 12-byte nonce is prepended
// to the ciphertext: blob = nonce ‖ ciphertext.
func (k *keyChainService) Encrypt(plaintext, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(k.random, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt implements [KeyChainService].
func (k *keyChainService) Decrypt(blob, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(blob) < nonceSize+gcm.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrDecrypt)
	}

	nonce, ciphertext := blob[:nonceSize], blob[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecrypt, err)
	}
	return plaintext, nil
}

// EncryptJSON implements [KeyChainService].
func (k *keyChainService) EncryptJSON(data any, key []byte) ([]byte, error) {
	plaintext, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal data: %w", err)
	}
	return k.Encrypt(plaintext, key)
}

// DecryptJSON implements [KeyChainService].
func (k *keyChainService) DecryptJSON(blob, key []byte, target any) error {
	plaintext, err := k.Decrypt(blob, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(plaintext, target); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	return nil
}

// GenerateKeyPair implements [KeyChainService].
func (k *keyChainService) GenerateKeyPair() ([]byte, []byte, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), k.random)
	if err != nil {
		return nil, nil, fmt.Errorf("generate key pair: %w", err)
	}

	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal private key: %w", err)
	}

	pub, err := publicPoint(priv)
	if err != nil {
		return nil, nil, err
	}
	return der, pub, nil
}

// PublicKey implements [KeyChainService].
func (k *keyChainService) PublicKey(privateKey []byte) ([]byte, error) {
	priv, err := parsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	return publicPoint(priv)
}

// EncryptForPublicKey implements [KeyChainService]. The envelope is
// ephemeralPoint (65 bytes) ‖ nonce ‖ ciphertext.
func (k *keyChainService) EncryptForPublicKey(plaintext, publicKey []byte) ([]byte, error) {
	recipient, err := ecdh.P256().NewPublicKey(publicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: public key: %w", ErrInvalidKey, err)
	}

	ephemeral, err := ecdh.P256().GenerateKey(k.random)
	if err != nil {
		return nil, fmt.Errorf("generate ephemeral key: %w", err)
	}

	shared, err := ephemeral.ECDH(recipient)
	if err != nil {
		return nil, fmt.Errorf("ecdh: %w", err)
	}

	key, err := deriveKey(shared)
	if err != nil {
		return nil, err
	}

	sealed, err := k.Encrypt(plaintext, key)
	if err != nil {
		return nil, err
	}

	return append(ephemeral.PublicKey().Bytes(), sealed...), nil
}

// DecryptWithPrivateKey implements [KeyChainService].
func (k *keyChainService) DecryptWithPrivateKey(envelope, privateKey []byte) ([]byte, error) {
	if len(envelope) <= p256PointSize {
		return nil, fmt.Errorf("%w: envelope too short", ErrDecrypt)
	}

	priv, err := parsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	ecdhKey, err := priv.ECDH()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	ephemeral, err := ecdh.P256().NewPublicKey(envelope[:p256PointSize])
	if err != nil {
		return nil, fmt.Errorf("%w: ephemeral key: %w", ErrDecrypt, err)
	}

	shared, err := ecdhKey.ECDH(ephemeral)
	if err != nil {
		return nil, fmt.Errorf("%w: ecdh: %w", ErrDecrypt, err)
	}

	key, err := deriveKey(shared)
	if err != nil {
		return nil, err
	}
	return k.Decrypt(envelope[p256PointSize:], key)
}

// Sign implements [KeyChainService].
func (k *keyChainService) Sign(data, privateKey []byte) ([]byte, error) {
	priv, err := parsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}

	digest := sha256.Sum256(data)
	sig, err := ecdsa.SignASN1(k.random, priv, digest[:])
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}
	return sig, nil
}

// Verify implements [KeyChainService].
func (k *keyChainService) Verify(data, signature, publicKey []byte) bool {
	pub, err := ecdsa.ParseUncompressedPublicKey(elliptic.P256(), publicKey)
	if err != nil {
		return false
	}
	digest := sha256.Sum256(data)
	return ecdsa.VerifyASN1(pub, digest[:], signature)
}

// ClientIDFromToken implements [KeyChainService]. The id is
// HMAC-SHA512(token, label), so the vault can match it against the token it
// issued without the token itself ever being sent.
func (k *keyChainService) ClientIDFromToken(token []byte) []byte {
	mac := hmac.New(sha512.New, token)
	mac.Write([]byte(clientIDLabel))
	return mac.Sum(nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("%w: aes key must be %d bytes, got %d", ErrInvalidKey, keySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}

func deriveKey(shared []byte) ([]byte, error) {
	key := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, shared, nil, []byte(eciesInfo)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

func parsePrivateKey(der []byte) (*ecdsa.PrivateKey, error) {
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: parse private key: %w", ErrInvalidKey, err)
	}
	priv, ok := parsed.(*ecdsa.PrivateKey)
	if !ok || priv.Curve != elliptic.P256() {
		return nil, fmt.Errorf("%w: private key is not a P-256 ecdsa key", ErrInvalidKey)
	}
	return priv, nil
}

func publicPoint(priv *ecdsa.PrivateKey) ([]byte, error) {
	ecdhKey, err := priv.ECDH()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return ecdhKey.PublicKey().Bytes(), nil
}
