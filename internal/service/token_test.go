package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-secrets-manager/internal/adapter"
	"github.com/MKhiriev/go-secrets-manager/internal/logger"
	"github.com/MKhiriev/go-secrets-manager/internal/mock"
	"github.com/MKhiriev/go-secrets-manager/internal/store"
	"github.com/MKhiriev/go-secrets-manager/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestParseToken(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		hostname string
		wantHost string
		wantKey  []byte
		wantErr  error
	}{
		{name: "us region", token: "US:AAEC", wantHost: "keepersecurity.com", wantKey: []byte{0, 1, 2}},
		{name: "lower case region", token: "eu:AAEC", wantHost: "keepersecurity.eu", wantKey: []byte{0, 1, 2}},
		{name: "padded key", token: "AU:AAEC==", wantHost: "keepersecurity.com.au", wantKey: []byte{0, 1, 2}},
		{name: "hostname wins", token: "US:AAEC", hostname: "vault.local", wantHost: "vault.local", wantKey: []byte{0, 1, 2}},
		{name: "bare key with hostname", token: "_-8", hostname: "vault.local", wantHost: "vault.local", wantKey: []byte{0xff, 0xef}},
		{name: "bare key without hostname", token: "AAEC", wantErr: ErrInvalidToken},
		{name: "unknown region", token: "XX:AAEC", wantErr: ErrInvalidToken},
		{name: "empty key", token: "US:", wantErr: ErrInvalidToken},
		{name: "not base64", token: "US:***", wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, key, err := ParseToken(tt.token, tt.hostname)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestInitializeFromToken(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the token", func(t *testing.T) {
		mem, err := store.NewMemoryStorage("")
		require.NoError(t, err)

		cfg, err := InitializeFromToken(ctx, mem, "EU:AAEC", "", logger.Nop())

		require.NoError(t, err)
		assert.Equal(t, "keepersecurity.eu", cfg.Hostname)
		assert.Equal(t, "AAEC", cfg.ClientKey)
		assert.Equal(t, adapter.DefaultServerPublicKeyID, cfg.ServerPublicKeyID)
		assert.False(t, cfg.IsBound())

		stored, err := mem.Load(ctx)
		require.NoError(t, err)
		assert.True(t, cfg.Equal(stored))
	})

	t.Run("bound configuration is kept", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		storage := mock.NewMockConfigStorage(ctrl)
		bound := models.Configuration{Hostname: "h", ClientID: []byte{1}, PrivateKey: []byte{2}, AppKey: []byte{3}}
		storage.EXPECT().Load(ctx).Return(bound, nil)

		cfg, err := InitializeFromToken(ctx, storage, "US:AAEC", "", logger.Nop())

		require.NoError(t, err)
		assert.True(t, bound.Equal(cfg))
	})

	t.Run("unreadable storage", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		storage := mock.NewMockConfigStorage(ctrl)
		storage.EXPECT().Load(ctx).Return(models.Configuration{}, store.ErrStorage)

		_, err := InitializeFromToken(ctx, storage, "US:AAEC", "", logger.Nop())

		assert.ErrorIs(t, err, ErrStorage)
	})

	t.Run("save failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		storage := mock.NewMockConfigStorage(ctrl)
		storage.EXPECT().Load(ctx).Return(models.Configuration{}, store.ErrConfigNotFound)
		storage.EXPECT().Save(ctx, gomock.Any()).Return(errors.Join(store.ErrStorage, errors.New("read-only")))

		_, err := InitializeFromToken(ctx, storage, "US:AAEC", "", logger.Nop())

		assert.ErrorIs(t, err, ErrStorage)
	})

	t.Run("invalid token", func(t *testing.T) {
		mem, err := store.NewMemoryStorage("")
		require.NoError(t, err)

		_, err = InitializeFromToken(ctx, mem, "nope", "", logger.Nop())

		assert.ErrorIs(t, err, ErrInvalidToken)
		_, err = mem.Load(ctx)
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})
}
