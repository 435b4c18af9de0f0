// Package cryptox implements the symmetric string cipher used for encrypted
// backups. A Cipher is derived deterministically from a user-supplied seed,
// so the same seed always yields the same key and no key material ever needs
// to be persisted. Encryption operates on individual rows: each row carries
// its own nonce, so a single corrupted row can be skipped without
// invalidating the rest of the backup.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/common"
	"golang.org/x/crypto/argon2"
)

const nonceSize = 12

// Cipher encrypts and decrypts strings with a key derived from a seed.
type Cipher struct {
	seed string
	aead cipher.AEAD
}

// DeriveKey derives a fixed-length AES key from the seed. The salt is the
// SHA-256 digest of the seed itself, which keeps derivation deterministic
// without storing a salt alongside the data.
func DeriveKey(seed string) []byte {
	salt := sha256.Sum256([]byte(seed))
	return argon2.IDKey([]byte(seed), salt[:], 1, 64*1024, 4, 32)
}

// New constructs a Cipher from the given seed.
func New(seed string) (*Cipher, error) {
	block, err := aes.NewCipher(DeriveKey(seed))
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return &Cipher{seed: seed, aead: aead}, nil
}

// Encrypt encrypts plaintext with AES-GCM under a fresh random nonce and
// returns base64(nonce || ciphertext).
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Undecodable or unauthenticatable input yields an
// error matching common.ErrEncryption.
func (c *Cipher) Decrypt(encrypted string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrEncryption, err)
	}
	if len(raw) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", common.ErrEncryption)
	}
	plaintext, err := c.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrEncryption, err)
	}
	return string(plaintext), nil
}

// SealSeed produces the self-verifying checksum stored in backup metadata:
// the seed encrypted with itself. No plaintext secret is ever persisted.
func (c *Cipher) SealSeed() (string, error) {
	return c.Encrypt(c.seed)
}

// VerifySeed reports whether checksum was produced by a cipher built from
// seed. The comparison runs in constant time relative to the seed content.
func VerifySeed(seed string, checksum string) bool {
	c, err := New(seed)
	if err != nil {
		return false
	}
	decrypted, err := c.Decrypt(checksum)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(decrypted), []byte(seed)) == 1
}
