// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-secrets-manager/internal/config"
	"github.com/MKhiriev/go-secrets-manager/internal/crypto"
	"github.com/MKhiriev/go-secrets-manager/internal/logger"
	"github.com/MKhiriev/go-secrets-manager/internal/utils"
	"github.com/MKhiriev/go-secrets-manager/models"
	"github.com/sethvargo/go-retry"
)

// DefaultServerPublicKeyID is used when a configuration does not name a
// server key yet.
const DefaultServerPublicKeyID = "7"

const (
	apiPath        = "/api/rest/sm/v1/"
	publicKeysPath = apiPath + "public_keys"

	commandGetSecret    = "get_secret"
	commandGetFolders   = "get_folders"
	commandCreateSecret = "create_secret"
	commandUpdateSecret = "update_secret"
	commandDeleteSecret = "delete_secret"
	commandFileUpload   = "file_upload"
	commandAddFile      = "add_file"

	headerPublicKeyID     = "PublicKeyId"
	headerTransmissionKey = "TransmissionKey"
	headerAuthorization   = "Authorization"
	signaturePrefix       = "Signature "

	retryJitterPercent = 10
)

type httpVaultAdapter struct {
	client   *utils.HTTPClient
	keychain crypto.KeyChainService
	logger   *logger.Logger

	retryAttempts  uint64
	retryBaseDelay time.Duration

	mu         sync.Mutex
	serverKeys map[string]map[string][]byte // base URL -> key id -> point
	pinnedKeys map[string][]byte
}

// Option customises the HTTP adapter.
type Option func(*httpVaultAdapter)

// WithServerPublicKeys pins the server public keys by id. The adapter then
// never fetches them from the vault.
func WithServerPublicKeys(keys map[string][]byte) Option {
	return func(h *httpVaultAdapter) {
		h.pinnedKeys = make(map[string][]byte, len(keys))
		for id, key := range keys {
			h.pinnedKeys[id] = slices.Clone(key)
		}
	}
}

// NewHTTPVaultAdapter returns a [VaultAdapter] talking to the vault over
// HTTP. The vault host is taken from the configuration passed to each call.
func NewHTTPVaultAdapter(adapterCfg config.ClientAdapter, keychain crypto.KeyChainService, log *logger.Logger, opts ...Option) VaultAdapter {
	client := utils.NewHTTPClient(adapterCfg.RequestTimeout)

	h := &httpVaultAdapter{
		client:         client,
		keychain:       keychain,
		logger:         log,
		retryAttempts:  adapterCfg.RetryAttempts,
		retryBaseDelay: adapterCfg.RetryBaseDelay,
		serverKeys:     make(map[string]map[string][]byte),
	}
	if h.retryBaseDelay <= 0 {
		h.retryBaseDelay = config.DefaultRetryBaseDelay
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *httpVaultAdapter) GetSecrets(ctx context.Context, cfg models.Configuration, payload models.GetPayload) (models.SecretsResponse, error) {
	var resp models.SecretsResponse
	if err := h.post(ctx, cfg, commandGetSecret, payload, &resp); err != nil {
		return models.SecretsResponse{}, err
	}
	return resp, nil
}

func (h *httpVaultAdapter) GetFolders(ctx context.Context, cfg models.Configuration, payload models.FoldersPayload) (models.FoldersResponse, error) {
	var resp models.FoldersResponse
	if err := h.post(ctx, cfg, commandGetFolders, payload, &resp); err != nil {
		return models.FoldersResponse{}, err
	}
	return resp, nil
}

func (h *httpVaultAdapter) CreateSecret(ctx context.Context, cfg models.Configuration, payload models.CreatePayload) error {
	return h.post(ctx, cfg, commandCreateSecret, payload, nil)
}

func (h *httpVaultAdapter) UpdateSecret(ctx context.Context, cfg models.Configuration, payload models.UpdatePayload) (models.UpdateResponse, error) {
	var resp models.UpdateResponse
	if err := h.post(ctx, cfg, commandUpdateSecret, payload, &resp); err != nil {
		return models.UpdateResponse{}, err
	}
	return resp, nil
}

func (h *httpVaultAdapter) DeleteSecrets(ctx context.Context, cfg models.Configuration, payload models.DeletePayload) error {
	return h.post(ctx, cfg, commandDeleteSecret, payload, nil)
}

func (h *httpVaultAdapter) RequestUpload(ctx context.Context, cfg models.Configuration, payload models.FileUploadPayload) (models.FileUploadResponse, error) {
	var resp models.FileUploadResponse
	if err := h.post(ctx, cfg, commandFileUpload, payload, &resp); err != nil {
		return models.FileUploadResponse{}, err
	}
	if resp.URL == "" {
		return models.FileUploadResponse{}, fmt.Errorf("%w: upload slot without url", ErrDecode)
	}
	return resp, nil
}

func (h *httpVaultAdapter) AddFile(ctx context.Context, cfg models.Configuration, payload models.AddFilePayload) (models.AddFileResponse, error) {
	var resp models.AddFileResponse
	if err := h.post(ctx, cfg, commandAddFile, payload, &resp); err != nil {
		return models.AddFileResponse{}, err
	}
	return resp, nil
}

// post sends an encrypted command and decodes the decrypted response into
// result. Every attempt uses a fresh transmission key.
func (h *httpVaultAdapter) post(ctx context.Context, cfg models.Configuration, command string, payload, result any) error {
	baseURL, err := normalizeBaseURL(cfg.Hostname)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: encode payload: %w", command, err)
	}

	attempt := 0
	var plain []byte
	err = retry.Do(ctx, h.backoff(), func(ctx context.Context) error {
		attempt++
		var exchangeErr error
		plain, exchangeErr = h.exchange(ctx, cfg, baseURL, command, body)
		if errors.Is(exchangeErr, ErrNetwork) {
			h.logger.Debug().
				Str("func", "httpVaultAdapter.post").
				Str("command", command).
				Int("attempt", attempt).
				Err(exchangeErr).
				Msg("retrying vault request")
			return retry.RetryableError(exchangeErr)
		}
		return exchangeErr
	})
	if err != nil {
		h.logger.Err(err).
			Str("func", "httpVaultAdapter.post").
			Str("command", command).
			Int("attempts", attempt).
			Msg("vault request failed")
		return fmt.Errorf("%s: %w", command, err)
	}

	if result == nil || len(plain) == 0 {
		return nil
	}
	if err := json.Unmarshal(plain, result); err != nil {
		return fmt.Errorf("%s: %w: %w", command, ErrDecode, err)
	}

	h.logger.Debug().
		Str("func", "httpVaultAdapter.post").
		Str("command", command).
		Int("attempts", attempt).
		Msg("vault request succeeded")
	return nil
}

// exchange performs a single request/response round trip and returns the
// decrypted response body.
func (h *httpVaultAdapter) exchange(ctx context.Context, cfg models.Configuration, baseURL, command string, payload []byte) ([]byte, error) {
	keyID := cfg.ServerPublicKeyID
	if keyID == "" {
		keyID = DefaultServerPublicKeyID
	}

	serverKey, err := h.serverPublicKey(ctx, baseURL, keyID)
	if err != nil {
		return nil, err
	}

	transmissionKey, err := h.keychain.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generate transmission key: %w", err)
	}
	encryptedPayload, err := h.keychain.Encrypt(payload, transmissionKey)
	if err != nil {
		return nil, fmt.Errorf("encrypt payload: %w", err)
	}
	encryptedKey, err := h.keychain.EncryptForPublicKey(transmissionKey, serverKey)
	if err != nil {
		return nil, fmt.Errorf("%w: wrap transmission key: %w", ErrAuth, err)
	}
	signature, err := h.keychain.Sign(slices.Concat(encryptedKey, encryptedPayload), cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: sign request: %w", ErrAuth, err)
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetHeader(headerPublicKeyID, keyID).
		SetHeader(headerTransmissionKey, base64.StdEncoding.EncodeToString(encryptedKey)).
		SetHeader(headerAuthorization, signaturePrefix+base64.StdEncoding.EncodeToString(signature)).
		SetBody(encryptedPayload).
		Post(baseURL + apiPath + command)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	if err := mapHTTPError(resp); err != nil {
		return nil, err
	}

	if len(resp.Body()) == 0 {
		return nil, nil
	}
	plain, err := h.keychain.Decrypt(resp.Body(), transmissionKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return plain, nil
}

// serverPublicKey returns the key with the given id, fetching the key list
// from the vault when it is not known yet.
func (h *httpVaultAdapter) serverPublicKey(ctx context.Context, baseURL, keyID string) ([]byte, error) {
	if h.pinnedKeys != nil {
		key, ok := h.pinnedKeys[keyID]
		if !ok {
			return nil, fmt.Errorf("%w: unknown server public key id %s", ErrAuth, keyID)
		}
		return key, nil
	}

	h.mu.Lock()
	key, ok := h.serverKeys[baseURL][keyID]
	h.mu.Unlock()
	if ok {
		return key, nil
	}

	var keys models.PublicKeysResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&keys).
		Get(baseURL + publicKeysPath)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	if err := mapHTTPError(resp); err != nil {
		return nil, fmt.Errorf("fetch server public keys: %w", err)
	}
	if len(keys.Keys) == 0 {
		return nil, fmt.Errorf("%w: empty server public key list", ErrDecode)
	}

	h.mu.Lock()
	h.serverKeys[baseURL] = keys.Keys
	h.mu.Unlock()

	key, ok = keys.Keys[keyID]
	if !ok {
		return nil, fmt.Errorf("%w: unknown server public key id %s", ErrAuth, keyID)
	}
	return key, nil
}

func (h *httpVaultAdapter) backoff() retry.Backoff {
	b := retry.NewExponential(h.retryBaseDelay)
	b = retry.WithJitterPercent(retryJitterPercent, b)
	return retry.WithMaxRetries(h.retryAttempts, b)
}

// transportError classifies a failed round trip. Cancellation is reported
// as is so that it is never retried.
func transportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}

// normalizeBaseURL turns a configured hostname into a base URL without a
// trailing slash. Hosts without a scheme are reached over https.
func normalizeBaseURL(hostname string) (string, error) {
	base := strings.TrimSpace(hostname)
	if base == "" {
		return "", fmt.Errorf("%w: empty hostname", ErrBadRequest)
	}
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return strings.TrimRight(base, "/"), nil
}
