// Package models defines client-side data types shared by the transport,
// session and storage layers.
package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/fsbackup/internal/common"
)

// ErrEmptyCredentialName is returned for credentials without a file name.
var ErrEmptyCredentialName = errors.New("credential file name is empty")

// Credential is an opaque service-account key: the raw bytes of the file the
// operator picked and its original name. The client never inspects Data.
type Credential struct {
	Name string
	Data []byte
}

// Validate checks the only precondition the client enforces: a non-empty name.
func (c Credential) Validate() error {
	if c.Name == "" {
		return ErrEmptyCredentialName
	}
	return nil
}

// Wipe zeroes the credential bytes in place.
func (c *Credential) Wipe() {
	common.WipeByteArray(c.Data)
	c.Data = nil
}

// ReadCredentialFile loads a key file from disk. The name is the file's base name.
func ReadCredentialFile(path string) (Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credential{}, fmt.Errorf("read credential file: %w", err)
	}
	return Credential{Name: filepath.Base(path), Data: data}, nil
}
