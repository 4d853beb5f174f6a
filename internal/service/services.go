package service

import (
	"github.com/MKhiriev/go-secrets-manager/internal/adapter"
	"github.com/MKhiriev/go-secrets-manager/internal/config"
	"github.com/MKhiriev/go-secrets-manager/internal/crypto"
	"github.com/MKhiriev/go-secrets-manager/internal/logger"
	"github.com/MKhiriev/go-secrets-manager/internal/store"
	"github.com/MKhiriev/go-secrets-manager/internal/validators"
)

// DefaultClientVersion is reported to the vault when no build version is
// known.
const DefaultClientVersion = "mg1.0.0"

// ClientVersion derives the version string sent with every request from a
// build version such as "v1.4.2".
func ClientVersion(buildVersion string) string {
	if buildVersion == "" || buildVersion == "N/A" {
		return DefaultClientVersion
	}
	if buildVersion[0] == 'v' {
		buildVersion = buildVersion[1:]
	}
	return "mg" + buildVersion
}

type ClientServices struct {
	SecretsService SecretsService
	FolderService  FolderService
	FileService    FileService
}

// NewClientServices wires the services around the given storages and
// adapter. The secrets service is wrapped with debug logging.
func NewClientServices(
	storages *store.ClientStorages,
	vaultAdapter adapter.VaultAdapter,
	keychain crypto.KeyChainService,
	workersCfg config.ClientWorkers,
	clientVersion string,
	log *logger.Logger,
) *ClientServices {
	if clientVersion == "" {
		clientVersion = DefaultClientVersion
	}

	s := &session{
		storage:       storages.Config,
		adapter:       vaultAdapter,
		keychain:      keychain,
		validator:     validators.NewRecordValidator(),
		clientVersion: clientVersion,
		logger:        log,
	}

	return &ClientServices{
		SecretsService: NewSecretsLoggingWrapper(log).Wrap(newSecretsService(s, storages.Cache)),
		FolderService:  newFolderService(s),
		FileService:    newFileService(s, workersCfg.DownloadConcurrency),
	}
}
