// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/MKhiriev/go-secrets-manager/internal/adapter"
	"github.com/MKhiriev/go-secrets-manager/internal/logger"
	"github.com/MKhiriev/go-secrets-manager/internal/mock"
	"github.com/MKhiriev/go-secrets-manager/internal/store"
	"github.com/MKhiriev/go-secrets-manager/internal/validators"
	"github.com/MKhiriev/go-secrets-manager/internal/vaulttest"
	"github.com/MKhiriev/go-secrets-manager/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ── GetSecrets ──────────────────────────────────────────────────────────────

func TestGetSecrets_PasswordField(t *testing.T) {
	vault := vaulttest.New(t)
	vault.AddRecord("rec-1", loginRecord(t, "db", "admin", "s3cr3t"))
	vault.AddWarning("app expires soon")
	cfg := vault.ClientConfiguration()
	svc, _ := newTestServices(t, &cfg, nil)

	bundle, err := svc.SecretsService.GetSecrets(context.Background())

	require.NoError(t, err)
	require.Len(t, bundle.Records, 1)
	assert.False(t, bundle.FromCache)
	assert.Equal(t, []string{"app expires soon"}, bundle.Warnings)

	record := bundle.Records[0]
	assert.Equal(t, "db", record.Title())
	assert.Equal(t, int64(1), record.Revision)
	assert.True(t, record.Editable)

	password, err := record.Password()
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", password)

	_, err = record.FieldValue(models.FieldTypeOTP)
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestGetSecrets_SharedFolderRecords(t *testing.T) {
	vault := vaulttest.New(t)
	vault.AddRecord("direct", loginRecord(t, "direct", "a", "1"))
	vault.AddSharedFolder("sf-1")
	vault.AddSharedRecord("sf-1", "shared", loginRecord(t, "shared", "b", "2"))
	cfg := vault.ClientConfiguration()
	svc, _ := newTestServices(t, &cfg, nil)

	bundle, err := svc.SecretsService.GetSecrets(context.Background())

	require.NoError(t, err)
	require.Len(t, bundle.Records, 2)
	assert.Equal(t, []string{"sf-1"}, bundle.SharedFolderUIDs)

	shared, ok := bundle.RecordByUID("shared")
	require.True(t, ok)
	assert.Equal(t, "sf-1", shared.FolderUID)
	assert.False(t, shared.Editable)
	pw, err := shared.Password()
	require.NoError(t, err)
	assert.Equal(t, "2", pw)
}

func TestGetSecrets_Filter(t *testing.T) {
	vault := vaulttest.New(t)
	vault.AddRecord("a", loginRecord(t, "a", "a", "1"))
	vault.AddRecord("b", loginRecord(t, "b", "b", "2"))
	cfg := vault.ClientConfiguration()
	svc, _ := newTestServices(t, &cfg, nil)

	bundle, err := svc.SecretsService.GetSecrets(context.Background(), "b")

	require.NoError(t, err)
	require.Len(t, bundle.Records, 1)
	assert.Equal(t, "b", bundle.Records[0].UID)
}

func TestGetSecrets_CorruptRecord(t *testing.T) {
	vault := vaulttest.New(t)
	cfg := vault.ClientConfiguration()
	vault.AddRawRecord(models.RecordResponse{RecordUID: "bad", RecordKey: []byte("not a wrapped key"), Data: []byte("x")})
	svc, _ := newTestServices(t, &cfg, nil)

	_, err := svc.SecretsService.GetSecrets(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestGetSecrets_NoConfiguration(t *testing.T) {
	svc, _ := newTestServices(t, nil, nil)

	_, err := svc.SecretsService.GetSecrets(context.Background())

	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestGetSecrets_NotBoundWithoutToken(t *testing.T) {
	svc, _ := newTestServices(t, &models.Configuration{Hostname: "vault.local"}, nil)

	_, err := svc.SecretsService.GetSecrets(context.Background())

	assert.ErrorIs(t, err, ErrNotBound)
}

func TestGetSecrets_KeyRotationIsPersisted(t *testing.T) {
	vault := vaulttest.New(t)
	vault.AddRecord("rec-1", loginRecord(t, "db", "a", "b"))
	cfg := vault.ClientConfiguration()
	newID := vault.RotateKey()
	svc, mem := newTestServices(t, &cfg, nil)

	bundle, err := svc.SecretsService.GetSecrets(context.Background())

	require.NoError(t, err)
	assert.Len(t, bundle.Records, 1)
	assert.Equal(t, []string{"get_secret", "get_secret"}, vault.Commands())

	stored, err := mem.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, newID, stored.ServerPublicKeyID)
}

func TestGetSecrets_NetworkFailureWithoutCache(t *testing.T) {
	vault := vaulttest.New(t)
	cfg := vault.ClientConfiguration()
	vault.FailNext(http.StatusServiceUnavailable, http.StatusServiceUnavailable)
	svc, _ := newTestServices(t, &cfg, nil)

	_, err := svc.SecretsService.GetSecrets(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.True(t, IsRetryable(err))
	assert.Len(t, vault.Commands(), 2, "one attempt plus one retry")
}

func TestGetSecrets_OfflineCache(t *testing.T) {
	vault := vaulttest.New(t)
	vault.AddRecord("rec-1", loginRecord(t, "db", "admin", "s3cr3t"))
	cfg := vault.ClientConfiguration()
	cache := store.NewMemoryResponseCache()
	svc, _ := newTestServices(t, &cfg, cache)
	ctx := context.Background()

	_, err := svc.SecretsService.GetSecrets(ctx)
	require.NoError(t, err)

	vault.FailNext(http.StatusBadGateway, http.StatusBadGateway)
	bundle, err := svc.SecretsService.GetSecrets(ctx)

	require.NoError(t, err)
	assert.True(t, bundle.FromCache)
	assert.Contains(t, bundle.Warnings, CacheWarning)
	require.Len(t, bundle.Records, 1)
	pw, err := bundle.Records[0].Password()
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", pw)

	t.Run("different filter is a cache miss", func(t *testing.T) {
		vault.FailNext(http.StatusBadGateway, http.StatusBadGateway)
		_, err := svc.SecretsService.GetSecrets(ctx, "rec-1")
		assert.ErrorIs(t, err, ErrNetwork)
	})

	t.Run("auth failures never use the cache", func(t *testing.T) {
		vault.FailNext(http.StatusForbidden)
		_, err := svc.SecretsService.GetSecrets(ctx)
		assert.ErrorIs(t, err, ErrAuth)
	})
}

func TestGetSecrets_CacheIsEncrypted(t *testing.T) {
	vault := vaulttest.New(t)
	vault.AddRecord("rec-1", loginRecord(t, "db", "admin", "very-secret-password"))
	cfg := vault.ClientConfiguration()
	cache := store.NewMemoryResponseCache()
	svc, _ := newTestServices(t, &cfg, cache)

	_, err := svc.SecretsService.GetSecrets(context.Background())
	require.NoError(t, err)

	payload, err := cache.LoadResponse(context.Background(), cacheKey(nil))
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "rec-1")
	assert.NotContains(t, string(payload), "very-secret-password")
}

// ── Token binding ───────────────────────────────────────────────────────────

func TestGetSecrets_BindsOneTimeToken(t *testing.T) {
	vault := vaulttest.New(t)
	vault.AddRecord("rec-1", loginRecord(t, "db", "admin", "s3cr3t"))
	token := vault.AddOneTimeToken()
	svc, mem := newTestServices(t, nil, nil)
	ctx := context.Background()

	_, err := InitializeFromToken(ctx, mem, "US:"+token, vault.URL(), logger.Nop())
	require.NoError(t, err)

	bundle, err := svc.SecretsService.GetSecrets(ctx)
	require.NoError(t, err)
	require.Len(t, bundle.Records, 1)

	stored, err := mem.Load(ctx)
	require.NoError(t, err)
	assert.True(t, stored.IsBound())
	assert.Empty(t, stored.ClientKey)
	assert.Equal(t, vault.AppKey(), stored.AppKey)
	assert.NotEmpty(t, stored.AppOwnerPublicKey)

	// the bound identity keeps working
	_, err = svc.SecretsService.GetSecrets(ctx)
	require.NoError(t, err)

	t.Run("token is single use", func(t *testing.T) {
		other, otherMem := newTestServices(t, nil, nil)
		_, err := InitializeFromToken(ctx, otherMem, token, vault.URL(), logger.Nop())
		require.NoError(t, err)

		_, err = other.SecretsService.GetSecrets(ctx)
		assert.ErrorIs(t, err, ErrAuth)
	})
}

// ── Changes ─────────────────────────────────────────────────────────────────

func TestUpdateSecret(t *testing.T) {
	vault := vaulttest.New(t)
	vault.AddRecord("rec-1", loginRecord(t, "db", "admin", "old"))
	cfg := vault.ClientConfiguration()
	svc, _ := newTestServices(t, &cfg, nil)
	ctx := context.Background()

	bundle, err := svc.SecretsService.GetSecrets(ctx)
	require.NoError(t, err)
	record := bundle.Records[0]

	t.Run("no pending changes sends nothing", func(t *testing.T) {
		before := len(vault.Commands())
		require.NoError(t, svc.SecretsService.UpdateSecret(ctx, record))
		assert.Len(t, vault.Commands(), before)
	})

	t.Run("direct data edits are not sent", func(t *testing.T) {
		before := len(vault.Commands())
		record.Data.Title = "renamed"

		require.NoError(t, svc.SecretsService.UpdateSecret(ctx, record))

		assert.Len(t, vault.Commands(), before)
		stored, _, ok := vault.Record("rec-1")
		require.True(t, ok)
		assert.Equal(t, "db", stored.Title)
		record.Data.Title = "db"
	})

	t.Run("stale revision keeps the pending change", func(t *testing.T) {
		require.NoError(t, record.SetFieldValue(models.FieldTypePassword, "new"))
		record.Revision = 9

		err := svc.SecretsService.UpdateSecret(ctx, record)

		assert.ErrorIs(t, err, ErrConflict)
		assert.True(t, record.HasPendingChanges())
		assert.Equal(t, int64(9), record.Revision)
		record.Revision = 1
	})

	t.Run("pushes the pending change", func(t *testing.T) {
		require.NoError(t, svc.SecretsService.UpdateSecret(ctx, record))

		assert.False(t, record.HasPendingChanges())
		assert.Equal(t, int64(2), record.Revision)
		pw, err := record.Password()
		require.NoError(t, err)
		assert.Equal(t, "new", pw)

		stored, revision, ok := vault.Record("rec-1")
		require.True(t, ok)
		assert.Equal(t, int64(2), revision)
		assert.Equal(t, "new", stored.Fields[1].Value[0].String())
	})
}

func TestCreateAndDeleteSecret(t *testing.T) {
	vault := vaulttest.New(t)
	vault.AddFolder("folder-1", "", "Infra")
	cfg := vault.ClientConfiguration()
	svc, _ := newTestServices(t, &cfg, nil)
	ctx := context.Background()

	uid, err := svc.SecretsService.CreateSecret(ctx, "folder-1", loginRecord(t, "new", "root", "pw"))
	require.NoError(t, err)
	assert.Len(t, uid, 22)

	bundle, err := svc.SecretsService.GetSecrets(ctx)
	require.NoError(t, err)
	record, ok := bundle.RecordByUID(uid)
	require.True(t, ok)
	assert.Equal(t, "new", record.Title())
	assert.Equal(t, "folder-1", record.FolderUID)

	require.NoError(t, svc.SecretsService.DeleteSecrets(ctx, uid))
	bundle, err = svc.SecretsService.GetSecrets(ctx)
	require.NoError(t, err)
	assert.Empty(t, bundle.Records)

	err = svc.SecretsService.DeleteSecrets(ctx, uid)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	assert.NoError(t, svc.SecretsService.DeleteSecrets(ctx))
}

func TestCreateSecret_InvalidData(t *testing.T) {
	vault := vaulttest.New(t)
	cfg := vault.ClientConfiguration()
	svc, _ := newTestServices(t, &cfg, nil)

	_, err := svc.SecretsService.CreateSecret(context.Background(), "", models.RecordData{Type: "login"})

	assert.ErrorIs(t, err, ErrInvalidRecord)
	assert.ErrorIs(t, err, validators.ErrEmptyTitle)
	assert.Empty(t, vault.Commands())
}

// ── Mocked collaborators ────────────────────────────────────────────────────

func newMockedSecretsService(t *testing.T, ctrl *gomock.Controller, cache store.ResponseCache) (SecretsService, *mock.MockConfigStorage, *mock.MockVaultAdapter) {
	t.Helper()
	storage := mock.NewMockConfigStorage(ctrl)
	vaultAdapter := mock.NewMockVaultAdapter(ctrl)

	s := &session{
		storage:       storage,
		adapter:       vaultAdapter,
		keychain:      newKeychain(),
		validator:     validators.NewRecordValidator(),
		clientVersion: testClientVersion,
		logger:        logger.Nop(),
	}
	return newSecretsService(s, cache), storage, vaultAdapter
}

func boundConfiguration(t *testing.T) models.Configuration {
	t.Helper()
	keychain := newKeychain()
	priv, _, err := keychain.GenerateKeyPair()
	require.NoError(t, err)
	appKey, err := keychain.GenerateKey()
	require.NoError(t, err)
	return models.Configuration{
		Hostname:          "vault.local",
		ClientID:          []byte("client"),
		PrivateKey:        priv,
		AppKey:            appKey,
		ServerPublicKeyID: "7",
	}
}

func TestGetSecrets_KeyRotationRetriedOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, storage, vaultAdapter := newMockedSecretsService(t, ctrl, nil)
	ctx := context.Background()
	cfg := boundConfiguration(t)

	storage.EXPECT().Load(ctx).Return(cfg, nil)
	gomock.InOrder(
		vaultAdapter.EXPECT().GetSecrets(ctx, gomock.Any(), gomock.Any()).
			Return(models.SecretsResponse{}, &adapter.KeyRotationError{KeyID: "9"}),
		storage.EXPECT().Save(ctx, gomock.Cond(func(c models.Configuration) bool {
			return c.ServerPublicKeyID == "9"
		})).Return(nil),
		vaultAdapter.EXPECT().GetSecrets(ctx, gomock.Cond(func(c models.Configuration) bool {
			return c.ServerPublicKeyID == "9"
		}), gomock.Any()).Return(models.SecretsResponse{}, &adapter.KeyRotationError{KeyID: "10"}),
	)

	_, err := svc.GetSecrets(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuth)
	assert.ErrorIs(t, err, adapter.ErrKeyRotation)
}

func TestGetSecrets_KeyRotationSaveFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, storage, vaultAdapter := newMockedSecretsService(t, ctrl, nil)
	ctx := context.Background()

	storage.EXPECT().Load(ctx).Return(boundConfiguration(t), nil)
	vaultAdapter.EXPECT().GetSecrets(ctx, gomock.Any(), gomock.Any()).
		Return(models.SecretsResponse{}, &adapter.KeyRotationError{KeyID: "9"})
	storage.EXPECT().Save(ctx, gomock.Any()).Return(store.ErrStorage)

	_, err := svc.GetSecrets(ctx)

	assert.ErrorIs(t, err, ErrStorage)
}

func TestGetSecrets_CacheWriteFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mock.NewMockResponseCache(ctrl)
	svc, storage, vaultAdapter := newMockedSecretsService(t, ctrl, cache)
	ctx := context.Background()

	storage.EXPECT().Load(ctx).Return(boundConfiguration(t), nil)
	vaultAdapter.EXPECT().GetSecrets(ctx, gomock.Any(), gomock.Any()).Return(models.SecretsResponse{}, nil)
	cache.EXPECT().SaveResponse(ctx, "get_secret", gomock.Any()).Return(errors.New("disk full"))

	bundle, err := svc.GetSecrets(ctx)

	require.NoError(t, err)
	assert.Empty(t, bundle.Records)
}

func TestGetSecrets_BindingWithoutAppKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, storage, vaultAdapter := newMockedSecretsService(t, ctrl, nil)
	ctx := context.Background()

	storage.EXPECT().Load(ctx).Return(models.Configuration{Hostname: "vault.local", ClientKey: "AAECAwQFBgcICQoLDA0ODw"}, nil)
	vaultAdapter.EXPECT().GetSecrets(ctx, gomock.Any(), gomock.Cond(func(p models.GetPayload) bool {
		return len(p.PublicKey) == 65 && len(p.ClientID) == 64
	})).Return(models.SecretsResponse{}, nil)

	_, err := svc.GetSecrets(ctx)

	assert.ErrorIs(t, err, ErrDecode)
}
