package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"linkmcp/pkg/logging"
)

// FileStore persists a single Credential record as one JSON document on
// disk. It implements the single-record mode of Store: the user id
// arguments are ignored and there is exactly one global slot.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store writing to the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the record to disk, replacing any previous content. The
// document is written to a temporary file and renamed into place so a
// crash mid-write cannot leave a torn record behind.
func (fs *FileStore) Save(ctx context.Context, cred *Credential) error {
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}

	tmp := fs.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		return fmt.Errorf("create token store directory: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write token store: %w", err)
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return fmt.Errorf("replace token store: %w", err)
	}

	logging.Debug("Store", "Saved credential to %s (expires: %v)", fs.path, cred.ExpiresAt)
	return nil
}

// Load returns the stored record. A missing, unreadable, or corrupted file
// reads as no record.
func (fs *FileStore) Load(ctx context.Context, userID string) (*Credential, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Warn("Store", "Failed to read token store %s, treating as empty: %v", fs.path, err)
		}
		return nil, nil
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		logging.Warn("Store", "Corrupted token store %s, treating as empty: %v", fs.path, err)
		return nil, nil
	}
	if cred.AccessToken == "" {
		return nil, nil
	}
	return &cred, nil
}

// LoadMostRecent returns the single stored record.
func (fs *FileStore) LoadMostRecent(ctx context.Context) (*Credential, error) {
	return fs.Load(ctx, "")
}

// Delete removes the backing file. Deleting an absent file is not an error.
func (fs *FileStore) Delete(ctx context.Context, userID string) error {
	if err := os.Remove(fs.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token store: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether a record with an access token exists.
func (fs *FileStore) IsAuthenticated(ctx context.Context, userID string) bool {
	cred, _ := fs.Load(ctx, userID)
	return cred != nil && cred.AccessToken != ""
}
