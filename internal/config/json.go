package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON names and
// string-friendly durations.
type StructuredJSONConfig struct {
	App struct {
		LogLevel string `json:"log_level"`
		Token    string `json:"token"`
		Hostname string `json:"hostname"`
	} `json:"app,omitempty"`

	Storage struct {
		Kind     string `json:"kind"`
		Blob     string `json:"config_blob"`
		FilePath string `json:"file_path"`
		DB       struct {
			DSN  string `json:"dsn"`
			Name string `json:"name"`
		} `json:"db,omitempty"`
		AWS struct {
			SecretID string `json:"secret_id"`
			Region   string `json:"region"`
			Profile  string `json:"profile"`
		} `json:"aws,omitempty"`
	} `json:"storage,omitempty"`

	Adapter struct {
		RequestTimeout Duration `json:"request_timeout"`
		RetryAttempts  uint64   `json:"retry_attempts"`
		RetryBaseDelay Duration `json:"retry_base_delay"`
	} `json:"adapter,omitempty"`

	Cache struct {
		Enabled bool   `json:"enabled"`
		Kind    string `json:"kind"`
		DSN     string `json:"dsn"`
	} `json:"cache,omitempty"`

	Workers struct {
		DownloadConcurrency int `json:"download_concurrency"`
	} `json:"workers,omitempty"`

	QuickTest struct {
		RecordUID   string `json:"record_uid"`
		Field       string `json:"field"`
		Notation    string `json:"notation"`
		UploadPath  string `json:"upload_path"`
		UploadTitle string `json:"upload_title"`
		Clipboard   bool   `json:"clipboard"`
		ListFolders bool   `json:"list_folders"`
	} `json:"quicktest,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			LogLevel: jsonCfg.App.LogLevel,
			Token:    jsonCfg.App.Token,
			Hostname: jsonCfg.App.Hostname,
		},
		Storage: Storage{
			Kind:     jsonCfg.Storage.Kind,
			Blob:     jsonCfg.Storage.Blob,
			FilePath: jsonCfg.Storage.FilePath,
			DB: DB{
				DSN:  jsonCfg.Storage.DB.DSN,
				Name: jsonCfg.Storage.DB.Name,
			},
			AWS: AWS{
				SecretID: jsonCfg.Storage.AWS.SecretID,
				Region:   jsonCfg.Storage.AWS.Region,
				Profile:  jsonCfg.Storage.AWS.Profile,
			},
		},
		Adapter: Adapter{
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			RetryAttempts:  jsonCfg.Adapter.RetryAttempts,
			RetryBaseDelay: time.Duration(jsonCfg.Adapter.RetryBaseDelay),
		},
		Cache: Cache{
			Enabled: jsonCfg.Cache.Enabled,
			Kind:    jsonCfg.Cache.Kind,
			DSN:     jsonCfg.Cache.DSN,
		},
		Workers: Workers{DownloadConcurrency: jsonCfg.Workers.DownloadConcurrency},
		QuickTest: QuickTest{
			RecordUID:   jsonCfg.QuickTest.RecordUID,
			Field:       jsonCfg.QuickTest.Field,
			Notation:    jsonCfg.QuickTest.Notation,
			UploadPath:  jsonCfg.QuickTest.UploadPath,
			UploadTitle: jsonCfg.QuickTest.UploadTitle,
			Clipboard:   jsonCfg.QuickTest.Clipboard,
			ListFolders: jsonCfg.QuickTest.ListFolders,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as integer nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", b)
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
