package server

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	gossh "golang.org/x/crypto/ssh"
)

// HostSigner loads the host key at path, generating and saving a fresh
// ed25519 key when the file does not exist. An empty path yields an
// unsaved key, so clients will see a new fingerprint on every start.
func HostSigner(path string) (gossh.Signer, error) {
	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			signer, err := gossh.ParsePrivateKey(b)
			if err != nil {
				return nil, fmt.Errorf("parsing host key %s: %w", path, err)
			}
			return signer, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading host key: %w", err)
		}
	}

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating host key: %w", err)
	}
	if path != "" {
		der, err := x509.MarshalPKCS8PrivateKey(priv)
		if err != nil {
			return nil, fmt.Errorf("encoding host key: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("creating host key dir: %w", err)
		}
		block := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
		if err := os.WriteFile(path, block, 0o600); err != nil {
			return nil, fmt.Errorf("writing host key: %w", err)
		}
	}
	return gossh.NewSignerFromKey(priv)
}
