package crypto

import "errors"

//go:generate mockgen -source=interfaces.go -destination=../mock/keychain_service_mock.go -package=mock

var (
	// ErrDecrypt is returned when a blob cannot be opened with the given key:
	// wrong key, truncated blob, or a tampered authentication tag.
	ErrDecrypt = errors.New("decryption failed")

	// ErrInvalidKey is returned when key material cannot be parsed.
	ErrInvalidKey = errors.New("invalid key material")
)

// KeyChainService holds all client-side cryptography of the vault protocol.
// It knows nothing about the network, storage or records; its only job is to
// generate, wrap and unwrap keys and payloads.
//
// Scheme:
//
//	recordKey, fileKey, transmissionKey = GenerateKey()           (AES-256)
//	blob      = Encrypt(plaintext, key)                           (nonce ‖ AES-GCM)
//	envelope  = EncryptForPublicKey(transmissionKey, serverKey)   (ECIES P-256)
//	signature = Sign(envelope ‖ encryptedPayload, privateKey)     (ECDSA P-256)
type KeyChainService interface {
	// GenerateKey returns 32 random bytes for use as an AES-256 key.
	GenerateKey() ([]byte, error)

	// Encrypt seals plaintext with key using AES-256-GCM and returns
	// nonce ‖ ciphertext.
	Encrypt(plaintext, key []byte) ([]byte, error)

	// Decrypt opens a blob produced by Encrypt. Fails with [ErrDecrypt].
	Decrypt(blob, key []byte) ([]byte, error)

	// EncryptJSON marshals data to JSON and encrypts it with key.
	EncryptJSON(data any, key []byte) ([]byte, error)

	// DecryptJSON decrypts blob with key and unmarshals the JSON result into
	// target, which must be a non-nil pointer.
	DecryptJSON(blob, key []byte, target any) error

	// GenerateKeyPair creates a P-256 key pair and returns the PKCS#8 DER
	// private key and the uncompressed public point.
	GenerateKeyPair() (privateKey, publicKey []byte, err error)

	// PublicKey derives the uncompressed public point from a PKCS#8 DER
	// private key.
	PublicKey(privateKey []byte) ([]byte, error)

	// EncryptForPublicKey encrypts plaintext to the holder of the private
	// key matching publicKey (ephemeral ECDH, HKDF-SHA256, AES-GCM).
	EncryptForPublicKey(plaintext, publicKey []byte) ([]byte, error)

	// DecryptWithPrivateKey opens an envelope produced by
	// EncryptForPublicKey. Fails with [ErrDecrypt].
	DecryptWithPrivateKey(envelope, privateKey []byte) ([]byte, error)

	// Sign returns an ASN.1 ECDSA-SHA256 signature of data.
	Sign(data, privateKey []byte) ([]byte, error)

	// Verify checks a signature produced by Sign against publicKey.
	Verify(data, signature, publicKey []byte) bool

	// ClientIDFromToken derives the client id bound to a one-time token.
	ClientIDFromToken(token []byte) []byte
}
