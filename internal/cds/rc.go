package cds

import (
	"crypto/tls"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RC holds the contents of a .cdsapirc credentials file. A missing verify entry
// means certificates are verified.
type RC struct {
	URL    string `yaml:"url"`
	Key    string `yaml:"key"`
	Verify *int   `yaml:"verify"`
}

// SkipVerify reports whether the file turns TLS certificate verification off.
func (rc *RC) SkipVerify() bool {
	return rc.Verify != nil && *rc.Verify == 0
}

// TLSConfig returns the client TLS configuration the file asks for.
func (rc *RC) TLSConfig() *tls.Config {
	return &tls.Config{InsecureSkipVerify: rc.SkipVerify()}
}

// DefaultRCPath returns $HOME/.cdsapirc.
func DefaultRCPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cdsapirc"
	}
	return filepath.Join(home, ".cdsapirc")
}

// LoadRC reads the credentials file at path.
func LoadRC(path string) (*RC, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rc RC
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &rc, nil
}

// Credentials returns the API URL, key and verify setting. Values already set win
// over the ones read from the credentials file at rcPath, which is only read when one
// of them is missing.
func Credentials(apiURL, key, rcPath string) (*RC, error) {
	if apiURL != "" && key != "" {
		return &RC{URL: apiURL, Key: key}, nil
	}
	if rcPath == "" {
		rcPath = DefaultRCPath()
	}
	rc, err := LoadRC(rcPath)
	if err != nil {
		return nil, fmt.Errorf("missing CDS credentials: %w", err)
	}
	if apiURL != "" {
		rc.URL = apiURL
	}
	if key != "" {
		rc.Key = key
	}
	if rc.URL == "" || rc.Key == "" {
		return nil, fmt.Errorf("missing CDS credentials: %s must set url and key", rcPath)
	}
	return rc, nil
}
