// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidConfiguration is returned when a configuration blob cannot be
	// decoded or lacks the fields required to talk to the vault.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// Configuration is the client's cryptographic identity and connection
// parameters. Binary values are serialised as standard base64 by
// encoding/json, which matches the configuration blob format.
type Configuration struct {
	// Hostname is the vault host, optionally with a scheme
	// (e.g. "keepersecurity.com" or "http://127.0.0.1:8080").
	Hostname string `json:"hostname"`

	// ClientID identifies the bound device. Sent with every request.
	ClientID []byte `json:"clientId,omitempty"`

	// PrivateKey is the PKCS#8 DER encoded P-256 key used to sign requests
	// and unwrap the application key during binding.
	PrivateKey []byte `json:"privateKey,omitempty"`

	// AppKey is the 256-bit application key that wraps record keys and
	// root folder keys.
	AppKey []byte `json:"appKey,omitempty"`

	// ServerPublicKeyID selects the server public key the transmission key
	// is encrypted to.
	ServerPublicKeyID string `json:"serverPublicKeyId,omitempty"`

	// AppOwnerPublicKey is the uncompressed P-256 point of the application
	// owner. New record keys are additionally wrapped to it.
	AppOwnerPublicKey []byte `json:"appOwnerPublicKey,omitempty"`

	// ClientKey is the one-time token used to bind a fresh configuration.
	// It is dropped once the binding succeeds.
	ClientKey string `json:"clientKey,omitempty"`
}

// IsBound reports whether the configuration holds a complete identity and
// can be used for authenticated requests without a token exchange.
func (c Configuration) IsBound() bool {
	return len(c.ClientID) > 0 && len(c.PrivateKey) > 0 && len(c.AppKey) > 0
}

// Validate checks the minimal invariants of a configuration.
func (c Configuration) Validate() error {
	if strings.TrimSpace(c.Hostname) == "" {
		return fmt.Errorf("%w: hostname is empty", ErrInvalidConfiguration)
	}
	if c.IsBound() {
		if len(c.AppKey) != 32 {
			return fmt.Errorf("%w: app key must be 32 bytes, got %d", ErrInvalidConfiguration, len(c.AppKey))
		}
		if c.ServerPublicKeyID == "" {
			return fmt.Errorf("%w: server public key id is empty", ErrInvalidConfiguration)
		}
		return nil
	}
	if c.ClientKey == "" {
		return fmt.Errorf("%w: neither bound identity nor one-time token present", ErrInvalidConfiguration)
	}
	return nil
}

// Clone returns a deep copy so callers can mutate it without affecting the
// original.
func (c Configuration) Clone() Configuration {
	out := c
	out.ClientID = bytes.Clone(c.ClientID)
	out.PrivateKey = bytes.Clone(c.PrivateKey)
	out.AppKey = bytes.Clone(c.AppKey)
	out.AppOwnerPublicKey = bytes.Clone(c.AppOwnerPublicKey)
	return out
}

// Equal reports whether both configurations carry the same values.
func (c Configuration) Equal(other Configuration) bool {
	return c.Hostname == other.Hostname &&
		c.ServerPublicKeyID == other.ServerPublicKeyID &&
		c.ClientKey == other.ClientKey &&
		bytes.Equal(c.ClientID, other.ClientID) &&
		bytes.Equal(c.PrivateKey, other.PrivateKey) &&
		bytes.Equal(c.AppKey, other.AppKey) &&
		bytes.Equal(c.AppOwnerPublicKey, other.AppOwnerPublicKey)
}

// ParseConfigurationJSON decodes the JSON form of a configuration.
func ParseConfigurationJSON(data []byte) (Configuration, error) {
	var cfg Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Configuration{}, fmt.Errorf("%w: decode json: %w", ErrInvalidConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return Configuration{}, err
	}
	return cfg, nil
}

// ParseConfigurationBlob decodes a base64 encoded JSON configuration blob.
// Surrounding whitespace is ignored.
func ParseConfigurationBlob(blob string) (Configuration, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(blob))
	if err != nil {
		return Configuration{}, fmt.Errorf("%w: decode base64: %w", ErrInvalidConfiguration, err)
	}
	return ParseConfigurationJSON(raw)
}

// JSON returns the JSON form of the configuration.
func (c Configuration) JSON() ([]byte, error) {
	return json.Marshal(c)
}

// Blob returns the base64 encoded JSON form of the configuration.
func (c Configuration) Blob() (string, error) {
	raw, err := c.JSON()
	if err != nil {
		return "", fmt.Errorf("encode configuration: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
