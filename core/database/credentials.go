package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrMissingCredential is returned when no usable database credential exists.
var ErrMissingCredential = errors.New("missing database credential")

// Credentials is the service credential file format.
type Credentials struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
}

// LoadCredentials reads a credential file.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingCredential, err)
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("%w: credential file %s is not valid JSON: %v", ErrMissingCredential, path, err)
	}
	if creds.User == "" {
		return nil, fmt.Errorf("%w: credential file %s has no user", ErrMissingCredential, path)
	}
	return &creds, nil
}

// Resolve applies the credential file, if configured, and checks that a
// MySQL connection has a user. SQLite needs no credential.
func (c Config) Resolve() (Config, error) {
	if c.CredentialsFile != "" {
		creds, err := LoadCredentials(c.CredentialsFile)
		if err != nil {
			return c, err
		}
		c.User = creds.User
		c.Password = creds.Password
		if creds.Host != "" {
			c.Host = creds.Host
		}
		if creds.Port != 0 {
			c.Port = creds.Port
		}
		if creds.Database != "" {
			c.Name = creds.Database
		}
	}

	if c.driver() == DriverMySQL && c.User == "" {
		return c, fmt.Errorf("%w: set DATABASE_USER or DATABASE_CREDENTIALS_FILE", ErrMissingCredential)
	}
	return c, nil
}

func (c Config) driver() string {
	if c.Driver == "" {
		return DriverMySQL
	}
	return c.Driver
}
