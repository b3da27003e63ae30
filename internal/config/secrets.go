// internal/config/secrets.go
package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/99designs/keyring"
)

const (
	serviceName   = "ezcomplete"
	masterKeyName = "__master_key__"
)

// SecretStore keeps small named secrets outside the config file
type SecretStore interface {
	Get(name string) (string, error)
	Set(name, value string) error
}

// KeyringStore stores secrets in the system keyring
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore opens the system keyring for this application
func NewKeyringStore() (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return &KeyringStore{ring: ring}, nil
}

func (k *KeyringStore) Get(name string) (string, error) {
	item, err := k.ring.Get(name)
	if err != nil {
		return "", fmt.Errorf("secret not found: %s: %w", name, err)
	}
	return string(item.Data), nil
}

func (k *KeyringStore) Set(name, value string) error {
	return k.ring.Set(keyring.Item{Key: name, Data: []byte(value)})
}

// masterKey is swapped in tests to keep them off the system keyring
var masterKey = GetMasterKey

// GetMasterKey retrieves or generates the master key from the system keyring
func GetMasterKey() ([]byte, error) {
	ks, err := NewKeyringStore()
	if err != nil {
		return nil, err
	}
	return MasterKeyFrom(ks)
}

// MasterKeyFrom returns the 32-byte key held in store, creating it on first use
func MasterKeyFrom(store SecretStore) ([]byte, error) {
	if keyHex, err := store.Get(masterKeyName); err == nil {
		key, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf("corrupt master key: %w", err)
		}
		return key, nil
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	if err := store.Set(masterKeyName, hex.EncodeToString(key)); err != nil {
		return nil, err
	}
	return key, nil
}

// Encrypt seals plainText with AES-GCM and returns nonce+ciphertext as hex
func Encrypt(plainText string, key []byte) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	return hex.EncodeToString(gcm.Seal(nonce, nonce, []byte(plainText), nil)), nil
}

// ErrCipherTooShort is returned when the sealed value cannot hold a nonce
var ErrCipherTooShort = errors.New("ciphertext too short")

// Decrypt opens a value produced by Encrypt
func Decrypt(cipherTextHex string, key []byte) (string, error) {
	sealed, err := hex.DecodeString(cipherTextHex)
	if err != nil {
		return "", err
	}

	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	n := gcm.NonceSize()
	if len(sealed) < n {
		return "", ErrCipherTooShort
	}
	plain, err := gcm.Open(nil, sealed[:n], sealed[n:], nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
