package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/MKhiriev/go-secrets-manager/internal/adapter"
	"github.com/MKhiriev/go-secrets-manager/internal/store"
	"github.com/MKhiriev/go-secrets-manager/internal/utils"
	"github.com/MKhiriev/go-secrets-manager/models"
)

// CacheWarning is added to a bundle served from the response cache.
const CacheWarning = "vault unreachable, records served from the offline cache"

type secretsService struct {
	*session
	cache store.ResponseCache
	uids  *utils.UIDGenerator
}

// newSecretsService builds a [SecretsService]. cache may be nil.
func newSecretsService(s *session, cache store.ResponseCache) SecretsService {
	return &secretsService{session: s, cache: cache, uids: utils.NewUIDGenerator()}
}

func (s *secretsService) GetSecrets(ctx context.Context, uids ...string) (models.SecretBundle, error) {
	cfg, err := s.load(ctx)
	if err != nil {
		return models.SecretBundle{}, err
	}
	if !cfg.IsBound() {
		if cfg.ClientKey == "" {
			return models.SecretBundle{}, ErrNotBound
		}
		return s.bind(ctx, cfg, uids)
	}

	payload := models.GetPayload{
		ClientVersion:    s.clientVersion,
		ClientID:         cfg.ClientID,
		RequestedRecords: uids,
	}

	var resp models.SecretsResponse
	err = s.withKeyRotation(ctx, &cfg, func(c models.Configuration) error {
		var callErr error
		resp, callErr = s.adapter.GetSecrets(ctx, c, payload)
		return callErr
	})
	if err != nil {
		if errors.Is(err, ErrNetwork) {
			if bundle, ok := s.fromCache(ctx, cfg, uids); ok {
				return bundle, nil
			}
		}
		return models.SecretBundle{}, fmt.Errorf("get secrets: %w", mapAdapterError(err))
	}

	bundle, err := decodeSecrets(s.keychain, resp, cfg.AppKey)
	if err != nil {
		return models.SecretBundle{}, err
	}
	s.toCache(ctx, cfg, uids, resp)
	return bundle, nil
}

// bind exchanges the one-time token for the application key. The first
// get_secret carries the new public key; its response carries the app key
// wrapped by the token.
func (s *secretsService) bind(ctx context.Context, cfg models.Configuration, uids []string) (models.SecretBundle, error) {
	token, err := decodeTokenKey(cfg.ClientKey)
	if err != nil {
		return models.SecretBundle{}, err
	}

	privateKey, publicKey, err := s.keychain.GenerateKeyPair()
	if err != nil {
		return models.SecretBundle{}, fmt.Errorf("generate client key pair: %w", err)
	}
	cfg.ClientID = s.keychain.ClientIDFromToken(token)
	cfg.PrivateKey = privateKey
	if cfg.ServerPublicKeyID == "" {
		cfg.ServerPublicKeyID = adapter.DefaultServerPublicKeyID
	}

	payload := models.GetPayload{
		ClientVersion:    s.clientVersion,
		ClientID:         cfg.ClientID,
		PublicKey:        publicKey,
		RequestedRecords: uids,
	}

	var resp models.SecretsResponse
	err = s.withKeyRotation(ctx, &cfg, func(c models.Configuration) error {
		var callErr error
		resp, callErr = s.adapter.GetSecrets(ctx, c, payload)
		return callErr
	})
	if err != nil {
		return models.SecretBundle{}, fmt.Errorf("bind one-time token: %w", mapAdapterError(err))
	}

	if len(resp.EncryptedAppKey) == 0 {
		return models.SecretBundle{}, fmt.Errorf("%w: binding response lacks the application key", ErrDecode)
	}
	appKey, err := s.keychain.Decrypt(resp.EncryptedAppKey, token)
	if err != nil {
		return models.SecretBundle{}, fmt.Errorf("%w: unwrap application key: %w", ErrAuth, err)
	}

	cfg.AppKey = appKey
	if len(resp.AppOwnerPublicKey) > 0 {
		cfg.AppOwnerPublicKey = resp.AppOwnerPublicKey
	}
	cfg.ClientKey = ""
	if err := s.save(ctx, cfg); err != nil {
		return models.SecretBundle{}, err
	}

	s.logger.Info().Str("func", "secretsService.bind").Msg("one-time token bound")

	bundle, err := decodeSecrets(s.keychain, resp, cfg.AppKey)
	if err != nil {
		return models.SecretBundle{}, err
	}
	s.toCache(ctx, cfg, uids, resp)
	return bundle, nil
}

func (s *secretsService) CreateSecret(ctx context.Context, folderUID string, data models.RecordData) (string, error) {
	if err := s.validate(ctx, data); err != nil {
		return "", err
	}

	cfg, err := s.loadBound(ctx)
	if err != nil {
		return "", err
	}

	recordKey, err := s.keychain.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("generate record key: %w", err)
	}
	wrappedKey, err := s.keychain.Encrypt(recordKey, cfg.AppKey)
	if err != nil {
		return "", fmt.Errorf("wrap record key: %w", err)
	}
	encrypted, err := s.keychain.EncryptJSON(data, recordKey)
	if err != nil {
		return "", fmt.Errorf("encrypt record data: %w", err)
	}

	payload := models.CreatePayload{
		ClientVersion: s.clientVersion,
		ClientID:      cfg.ClientID,
		RecordUID:     s.uids.Generate(),
		RecordKey:     wrappedKey,
		FolderUID:     folderUID,
		Data:          encrypted,
	}
	if len(cfg.AppOwnerPublicKey) > 0 {
		payload.OwnerRecordKey, err = s.keychain.EncryptForPublicKey(recordKey, cfg.AppOwnerPublicKey)
		if err != nil {
			return "", fmt.Errorf("wrap record key for owner: %w", err)
		}
	}

	err = s.withKeyRotation(ctx, &cfg, func(c models.Configuration) error {
		return s.adapter.CreateSecret(ctx, c, payload)
	})
	if err != nil {
		return "", fmt.Errorf("create secret: %w", mapAdapterError(err))
	}
	return payload.RecordUID, nil
}

func (s *secretsService) UpdateSecret(ctx context.Context, record *models.Record) error {
	if record == nil {
		return fmt.Errorf("%w: nil record", ErrInvalidRecord)
	}
	if !record.HasPendingChanges() {
		return nil
	}
	if err := s.validate(ctx, record); err != nil {
		return err
	}

	cfg, err := s.loadBound(ctx)
	if err != nil {
		return err
	}

	data := record.Current()
	encrypted, err := s.keychain.EncryptJSON(data, record.Key())
	if err != nil {
		return fmt.Errorf("%w: encrypt record %s: %w", ErrInvalidRecord, record.UID, err)
	}

	payload := models.UpdatePayload{
		ClientVersion: s.clientVersion,
		ClientID:      cfg.ClientID,
		RecordUID:     record.UID,
		Data:          encrypted,
		Revision:      record.Revision,
	}

	var resp models.UpdateResponse
	err = s.withKeyRotation(ctx, &cfg, func(c models.Configuration) error {
		var callErr error
		resp, callErr = s.adapter.UpdateSecret(ctx, c, payload)
		return callErr
	})
	if err != nil {
		return fmt.Errorf("update secret %s: %w", record.UID, mapAdapterError(err))
	}

	revision := resp.Revision
	if revision == 0 {
		revision = record.Revision + 1
	}
	record.ApplyUpdate(data, revision)
	return nil
}

func (s *secretsService) DeleteSecrets(ctx context.Context, uids ...string) error {
	if len(uids) == 0 {
		return nil
	}

	cfg, err := s.loadBound(ctx)
	if err != nil {
		return err
	}

	payload := models.DeletePayload{ClientVersion: s.clientVersion, ClientID: cfg.ClientID, RecordUIDs: uids}
	err = s.withKeyRotation(ctx, &cfg, func(c models.Configuration) error {
		return s.adapter.DeleteSecrets(ctx, c, payload)
	})
	if err != nil {
		return fmt.Errorf("delete secrets: %w", mapAdapterError(err))
	}
	return nil
}

func cacheKey(uids []string) string {
	if len(uids) == 0 {
		return "get_secret"
	}
	sorted := slices.Clone(uids)
	slices.Sort(sorted)
	return "get_secret:" + strings.Join(sorted, ",")
}

// toCache keeps resp encrypted with the app key. Cache failures only cost
// the offline fallback and are logged.
func (s *secretsService) toCache(ctx context.Context, cfg models.Configuration, uids []string, resp models.SecretsResponse) {
	if s.cache == nil {
		return
	}

	resp.EncryptedAppKey = nil
	payload, err := s.keychain.EncryptJSON(resp, cfg.AppKey)
	if err == nil {
		err = s.cache.SaveResponse(ctx, cacheKey(uids), payload)
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("func", "secretsService.toCache").Msg("response not cached")
	}
}

func (s *secretsService) fromCache(ctx context.Context, cfg models.Configuration, uids []string) (models.SecretBundle, bool) {
	if s.cache == nil {
		return models.SecretBundle{}, false
	}

	log := s.logger.With().Str("func", "secretsService.fromCache").Logger()

	payload, err := s.cache.LoadResponse(ctx, cacheKey(uids))
	if err != nil {
		if !errors.Is(err, store.ErrCacheMiss) {
			log.Warn().Err(err).Msg("cache unreadable")
		}
		return models.SecretBundle{}, false
	}

	var resp models.SecretsResponse
	if err := s.keychain.DecryptJSON(payload, cfg.AppKey, &resp); err != nil {
		log.Warn().Err(err).Msg("cached response cannot be decrypted")
		return models.SecretBundle{}, false
	}
	bundle, err := decodeSecrets(s.keychain, resp, cfg.AppKey)
	if err != nil {
		log.Warn().Err(err).Msg("cached response cannot be decoded")
		return models.SecretBundle{}, false
	}

	log.Warn().Msg("serving records from offline cache")
	bundle.FromCache = true
	bundle.Warnings = append(bundle.Warnings, CacheWarning)
	return bundle, true
}
