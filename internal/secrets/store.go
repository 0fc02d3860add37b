// Package secrets keeps provider API keys in a per-user file (0600) sealed
// with AES-GCM. It is obfuscation against casual reads, not a keychain.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ProviderGeocoder names the address lookup key.
const ProviderGeocoder = "geocoder"

var (
	ErrProviderRequired = errors.New("provider required")
	ErrKeyNotFound      = errors.New("key not found")
)

const fileName = "keys.json"

type keyFile struct {
	Keys map[string]string `json:"keys"` // provider -> base64(nonce|ciphertext)
}

func StoreProviderKey(provider, key string) error {
	return update(provider, func(kf *keyFile, name string) error {
		sealed, err := seal([]byte(strings.TrimSpace(key)))
		if err != nil {
			return err
		}
		kf.Keys[name] = base64.StdEncoding.EncodeToString(sealed)
		return nil
	})
}

func FetchProviderKey(provider string) (string, error) {
	name := norm(provider)
	if name == "" {
		return "", ErrProviderRequired
	}
	path, err := filePath()
	if err != nil {
		return "", err
	}
	kf, err := read(path)
	if err != nil {
		return "", err
	}
	enc, ok := kf.Keys[name]
	if !ok {
		return "", fmt.Errorf("%s: %w", name, ErrKeyNotFound)
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", fmt.Errorf("decode %s key: %w", name, err)
	}
	plain, err := open(raw)
	if err != nil {
		return "", fmt.Errorf("decrypt %s key: %w", name, err)
	}
	return string(plain), nil
}

func DeleteProviderKey(provider string) error {
	return update(provider, func(kf *keyFile, name string) error {
		delete(kf.Keys, name)
		return nil
	})
}

func update(provider string, fn func(*keyFile, string) error) error {
	name := norm(provider)
	if name == "" {
		return ErrProviderRequired
	}
	path, err := filePath()
	if err != nil {
		return err
	}
	kf, err := read(path)
	if err != nil {
		return err
	}
	if kf.Keys == nil {
		kf.Keys = map[string]string{}
	}
	if err := fn(&kf, name); err != nil {
		return err
	}
	return write(path, kf)
}

func filePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "ecoscope")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

func read(path string) (keyFile, error) {
	var kf keyFile
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return kf, nil
		}
		return kf, err
	}
	if err := json.Unmarshal(data, &kf); err != nil {
		return kf, fmt.Errorf("parse %s: %w", path, err)
	}
	return kf, nil
}

func write(path string, kf keyFile) error {
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func norm(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func aead() (cipher.AEAD, error) {
	sum := sha256.Sum256([]byte(fmt.Sprintf("ecoscope-%s-%s", runtime.GOOS, os.Getenv("USER"))))
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func seal(plain []byte) ([]byte, error) {
	gcm, err := aead()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func open(sealed []byte) ([]byte, error) {
	gcm, err := aead()
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, body := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
