package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-secrets-manager/internal/config"
	"github.com/MKhiriev/go-secrets-manager/internal/logger"
	"github.com/MKhiriev/go-secrets-manager/internal/notation"
	"github.com/MKhiriev/go-secrets-manager/internal/service"
	"github.com/MKhiriev/go-secrets-manager/models"
)

var (
	ErrNoRecords            = errors.New("the application has no records")
	ErrUploadMismatch       = errors.New("downloaded file differs from the upload")
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
)

type App struct {
	services  *service.ClientServices
	cfg       config.QuickTest
	out       io.Writer
	clipboard Clipboard
	logger    *logger.Logger
}

// NewApp builds the quick-test runner. clipboard may be nil when copying is
// not wanted.
func NewApp(services *service.ClientServices, cfg config.QuickTest, out io.Writer, clipboard Clipboard, log *logger.Logger) (*App, error) {
	if services == nil {
		return nil, errors.New("client services are required")
	}
	if cfg.Clipboard && clipboard == nil {
		return nil, ErrClipboardUnavailable
	}
	return &App{services: services, cfg: cfg, out: out, clipboard: clipboard, logger: log}, nil
}

func (a *App) Run(ctx context.Context) error {
	var filter []string
	if a.cfg.RecordUID != "" && a.cfg.Notation == "" {
		filter = []string{a.cfg.RecordUID}
	}

	bundle, err := a.services.SecretsService.GetSecrets(ctx, filter...)
	if err != nil {
		return fmt.Errorf("get secrets: %w", err)
	}
	a.printBundle(bundle)

	if len(bundle.Records) == 0 {
		return ErrNoRecords
	}

	value, err := a.selectValue(bundle)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, value)

	if a.cfg.Clipboard {
		if err := a.clipboard.WriteAll(value); err != nil {
			return fmt.Errorf("%w: %w", ErrClipboardUnavailable, err)
		}
		fmt.Fprintln(a.out, "copied to clipboard")
	}

	if a.cfg.UploadPath != "" {
		if err := a.uploadAndVerify(ctx, a.target(bundle)); err != nil {
			return err
		}
	}

	if a.cfg.ListFolders {
		if err := a.printFolders(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) printBundle(bundle models.SecretBundle) {
	for _, w := range bundle.Warnings {
		fmt.Fprintf(a.out, "warning: %s\n", w)
	}
	for _, r := range bundle.Records {
		fmt.Fprintf(a.out, "%s\t%s\t%s\tfiles=%d\n", r.UID, r.Type(), r.Title(), len(r.Files))
	}
}

// target is the record the quick test works on: the configured uid or the
// first record.
func (a *App) target(bundle models.SecretBundle) *models.Record {
	if r, ok := bundle.RecordByUID(a.cfg.RecordUID); ok {
		return r
	}
	return bundle.Records[0]
}

func (a *App) selectValue(bundle models.SecretBundle) (string, error) {
	if a.cfg.Notation != "" {
		v, err := notation.GetValue(bundle.Records, a.cfg.Notation)
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", a.cfg.Notation, err)
		}
		return v.String(), nil
	}

	if a.cfg.RecordUID != "" {
		if _, ok := bundle.RecordByUID(a.cfg.RecordUID); !ok {
			return "", fmt.Errorf("%w: %s", service.ErrRecordNotFound, a.cfg.RecordUID)
		}
	}
	record := a.target(bundle)
	v, err := record.FieldValue(a.cfg.Field)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func (a *App) uploadAndVerify(ctx context.Context, record *models.Record) error {
	content, err := os.ReadFile(a.cfg.UploadPath)
	if err != nil {
		return fmt.Errorf("read upload file: %w", err)
	}

	upload := models.FileUpload{Name: filepath.Base(a.cfg.UploadPath), Title: a.cfg.UploadTitle, Data: content}
	fileUID, err := a.services.FileService.UploadFile(ctx, record, upload)
	if err != nil {
		return fmt.Errorf("upload %s: %w", upload.Name, err)
	}
	fmt.Fprintf(a.out, "uploaded %s as %s to %s\n", upload.Name, fileUID, record.UID)

	ref, ok := record.FileByUID(fileUID)
	if !ok {
		return fmt.Errorf("uploaded file %s not attached to %s", fileUID, record.UID)
	}
	downloaded, err := a.services.FileService.DownloadFile(ctx, ref)
	if err != nil {
		return fmt.Errorf("download %s: %w", fileUID, err)
	}
	if !bytes.Equal(content, downloaded) {
		return ErrUploadMismatch
	}

	a.logger.Debug().Str("file_uid", fileUID).Int("size", len(content)).Msg("upload verified")
	fmt.Fprintln(a.out, "download verified")
	return nil
}

func (a *App) printFolders(ctx context.Context) error {
	folders, err := a.services.FolderService.GetFolders(ctx)
	if err != nil {
		return fmt.Errorf("get folders: %w", err)
	}

	// parents precede children, so depths are known when a child is reached
	depth := make(map[string]int, len(folders))
	for _, f := range folders {
		d := 0
		if !f.IsRoot() {
			d = depth[f.ParentUID] + 1
		}
		depth[f.UID] = d
		fmt.Fprintf(a.out, "%s%s (%s)\n", strings.Repeat("  ", d), f.Name, f.UID)
	}
	return nil
}
