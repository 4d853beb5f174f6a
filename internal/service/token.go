package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-secrets-manager/internal/adapter"
	"github.com/MKhiriev/go-secrets-manager/internal/logger"
	"github.com/MKhiriev/go-secrets-manager/internal/store"
	"github.com/MKhiriev/go-secrets-manager/models"
)

// regionHosts maps one-time token region prefixes to vault hosts.
var regionHosts = map[string]string{
	"US":  "keepersecurity.com",
	"EU":  "keepersecurity.eu",
	"AU":  "keepersecurity.com.au",
	"GOV": "govcloud.keepersecurity.us",
	"JP":  "keepersecurity.jp",
	"CA":  "keepersecurity.ca",
}

// ParseToken splits a one-time token of the form "REGION:KEY" into the vault
// host and the raw token key. A token without a region needs hostname; a
// non-empty hostname always wins over the region.
func ParseToken(token, hostname string) (string, []byte, error) {
	token = strings.TrimSpace(token)
	region, key, hasRegion := strings.Cut(token, ":")
	if !hasRegion {
		key, region = region, ""
	}

	host := strings.TrimSpace(hostname)
	if host == "" {
		h, ok := regionHosts[strings.ToUpper(region)]
		if !ok {
			return "", nil, fmt.Errorf("%w: unknown region %q and no hostname", ErrInvalidToken, region)
		}
		host = h
	}

	raw, err := decodeTokenKey(key)
	if err != nil {
		return "", nil, err
	}
	return host, raw, nil
}

func decodeTokenKey(key string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(strings.TrimSpace(key), "="))
	if err != nil {
		return nil, fmt.Errorf("%w: key is not url-safe base64: %w", ErrInvalidToken, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: key is empty", ErrInvalidToken)
	}
	return raw, nil
}

// InitializeFromToken stores a configuration that carries the one-time token
// so the next GetSecrets binds it. A configuration that is already bound is
// kept as is and returned.
func InitializeFromToken(ctx context.Context, storage store.ConfigStorage, token, hostname string, log *logger.Logger) (models.Configuration, error) {
	existing, err := storage.Load(ctx)
	switch {
	case err == nil && existing.IsBound():
		log.Debug().Str("func", "InitializeFromToken").Msg("configuration already bound, token ignored")
		return existing, nil
	case err != nil && !errors.Is(err, store.ErrConfigNotFound):
		return models.Configuration{}, fmt.Errorf("load configuration: %w", err)
	}

	host, key, err := ParseToken(token, hostname)
	if err != nil {
		return models.Configuration{}, err
	}

	cfg := models.Configuration{
		Hostname:          host,
		ServerPublicKeyID: adapter.DefaultServerPublicKeyID,
		ClientKey:         base64.RawURLEncoding.EncodeToString(key),
	}
	if err := storage.Save(ctx, cfg); err != nil {
		return models.Configuration{}, fmt.Errorf("save configuration: %w", err)
	}

	log.Info().Str("func", "InitializeFromToken").Str("hostname", host).Msg("one-time token stored")
	return cfg, nil
}
