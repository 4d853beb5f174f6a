package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-secrets-manager/internal/logger"
	"github.com/MKhiriev/go-secrets-manager/models"
)

// SecretsLoggingWrapper logs every SecretsService call with its outcome and
// duration. Record contents are never logged.
type SecretsLoggingWrapper struct {
	logger *logger.Logger
}

func NewSecretsLoggingWrapper(log *logger.Logger) *SecretsLoggingWrapper {
	return &SecretsLoggingWrapper{logger: log}
}

func (w *SecretsLoggingWrapper) Wrap(next SecretsService) SecretsService {
	return &loggingSecretsService{next: next, logger: w.logger}
}

type loggingSecretsService struct {
	next   SecretsService
	logger *logger.Logger
}

func (l *loggingSecretsService) GetSecrets(ctx context.Context, uids ...string) (models.SecretBundle, error) {
	start := time.Now()
	bundle, err := l.next.GetSecrets(ctx, uids...)

	l.logger.Debug().
		Str("op", "GetSecrets").
		Int("requested", len(uids)).
		Int("records", len(bundle.Records)).
		Bool("from_cache", bundle.FromCache).
		Dur("duration", time.Since(start)).
		Err(err).
		Send()
	return bundle, err
}

func (l *loggingSecretsService) CreateSecret(ctx context.Context, folderUID string, data models.RecordData) (string, error) {
	start := time.Now()
	uid, err := l.next.CreateSecret(ctx, folderUID, data)

	l.logger.Debug().
		Str("op", "CreateSecret").
		Str("record_uid", uid).
		Dur("duration", time.Since(start)).
		Err(err).
		Send()
	return uid, err
}

func (l *loggingSecretsService) UpdateSecret(ctx context.Context, record *models.Record) error {
	start := time.Now()
	err := l.next.UpdateSecret(ctx, record)

	event := l.logger.Debug().Str("op", "UpdateSecret")
	if record != nil {
		event = event.Str("record_uid", record.UID).Int64("revision", record.Revision)
	}
	event.Dur("duration", time.Since(start)).Err(err).Send()
	return err
}

func (l *loggingSecretsService) DeleteSecrets(ctx context.Context, uids ...string) error {
	start := time.Now()
	err := l.next.DeleteSecrets(ctx, uids...)

	l.logger.Debug().
		Str("op", "DeleteSecrets").
		Strs("record_uids", uids).
		Dur("duration", time.Since(start)).
		Err(err).
		Send()
	return err
}
