package remote

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/agentstation/techmarket/pkg/constants"
	"github.com/agentstation/techmarket/pkg/errors"
)

// TokenStore keeps the remote catalog JWT in a JSON file of the form
// {"token": "..."} so it survives restarts.
type TokenStore struct {
	mu   sync.Mutex
	path string
}

type tokenFile struct {
	Token string `json:"token"`
}

// NewTokenStore creates a store for the token file at path.
func NewTokenStore(path string) *TokenStore {
	if path == "" {
		path = constants.DefaultTokenFile
	}
	return &TokenStore{path: path}
}

// Path returns the token file path.
func (s *TokenStore) Path() string {
	return s.path
}

// Load returns the saved token. A missing file yields an empty token.
func (s *TokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.WrapIO("read", s.path, err)
	}

	var f tokenFile
	if err := json.Unmarshal(data, &f); err != nil {
		return "", errors.WrapParse("json", s.path, err)
	}
	return f.Token, nil
}

// Save replaces the saved token.
func (s *TokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(tokenFile{Token: token})
	if err != nil {
		return errors.WrapParse("json", s.path, err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	if err := os.WriteFile(s.path, data, constants.SecureFilePermissions); err != nil {
		return errors.WrapIO("write", s.path, err)
	}
	return nil
}
