package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-secrets-manager/models"
	"github.com/sethvargo/go-retry"
	"github.com/tidwall/gjson"
)

const fileFormField = "file"

// UploadToStorage posts blob as a multipart form to the slot's URL together
// with the form fields listed in slot.Parameters. It is not retried: a slot
// may only be used once.
func (h *httpVaultAdapter) UploadToStorage(ctx context.Context, slot models.FileUploadResponse, fileName string, blob []byte) error {
	fields, err := uploadFormFields(slot.Parameters)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpload, err)
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetFormData(fields).
		SetMultipartField(fileFormField, fileName, "application/octet-stream", bytes.NewReader(blob)).
		Post(slot.URL)
	if err != nil {
		h.logger.Err(err).Str("func", "httpVaultAdapter.UploadToStorage").Msg("upload transport failure")
		return fmt.Errorf("%w: %w", ErrUpload, transportError(ctx, err))
	}

	if !uploadSucceeded(resp.StatusCode(), slot.SuccessStatusCode) {
		h.logger.Error().
			Str("func", "httpVaultAdapter.UploadToStorage").
			Int("status", resp.StatusCode()).
			Int("expected", slot.SuccessStatusCode).
			Msg("file storage rejected upload")
		return fmt.Errorf("%w: storage answered http %d", ErrUpload, resp.StatusCode())
	}
	return nil
}

// DownloadFromStorage fetches an encrypted blob. Network failures and
// server errors are retried.
func (h *httpVaultAdapter) DownloadFromStorage(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty file url", ErrBadRequest)
	}

	var blob []byte
	err := retry.Do(ctx, h.backoff(), func(ctx context.Context) error {
		resp, err := h.client.R().SetContext(ctx).Get(url)
		if err != nil {
			err = transportError(ctx, err)
		} else {
			err = mapHTTPError(resp)
		}
		if err != nil {
			if errors.Is(err, ErrNetwork) {
				return retry.RetryableError(err)
			}
			return err
		}
		blob = resp.Body()
		return nil
	})
	if err != nil {
		h.logger.Err(err).Str("func", "httpVaultAdapter.DownloadFromStorage").Msg("download failed")
		return nil, fmt.Errorf("download file: %w", err)
	}
	return blob, nil
}

// uploadFormFields flattens the JSON object of form fields. Non-string
// values are sent in their JSON form.
func uploadFormFields(parameters string) (map[string]string, error) {
	fields := make(map[string]string)
	if parameters == "" {
		return fields, nil
	}
	if !gjson.Valid(parameters) {
		return nil, errors.New("upload parameters are not valid json")
	}
	parsed := gjson.Parse(parameters)
	if !parsed.IsObject() {
		return nil, errors.New("upload parameters are not a json object")
	}
	parsed.ForEach(func(key, value gjson.Result) bool {
		fields[key.String()] = value.String()
		return true
	})
	return fields, nil
}

func uploadSucceeded(status, expected int) bool {
	if expected != 0 {
		return status == expected
	}
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}
