package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-secrets-manager/models"
)

type folderService struct {
	*session
}

func newFolderService(s *session) FolderService {
	return &folderService{session: s}
}

func (f *folderService) GetFolders(ctx context.Context) ([]models.Folder, error) {
	cfg, err := f.loadBound(ctx)
	if err != nil {
		return nil, err
	}

	payload := models.FoldersPayload{ClientVersion: f.clientVersion, ClientID: cfg.ClientID}

	var resp models.FoldersResponse
	err = f.withKeyRotation(ctx, &cfg, func(c models.Configuration) error {
		var callErr error
		resp, callErr = f.adapter.GetFolders(ctx, c, payload)
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("get folders: %w", mapAdapterError(err))
	}

	return decodeFolders(f.keychain, resp, cfg.AppKey)
}
