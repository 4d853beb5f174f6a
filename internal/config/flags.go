package config

import (
	"flag"
	"fmt"
	"io"
)

// ParseFlags parses the command-line flags in args (without the program
// name).
//
// Flags:
//
//	-c/-config            json file path with configs
//	-log-level            zerolog level name
//	-token                one-time access token REGION:KEY
//	-hostname             vault host override
//	-storage              configuration store: memory|file|sqlite|aws
//	-blob                 base64 configuration for the memory store
//	-f                    configuration file path
//	-d                    sqlite DSN
//	-db-name              configuration row key in sqlite
//	-aws-secret-id        AWS Secrets Manager secret id
//	-aws-region           AWS region
//	-aws-profile          AWS shared config profile
//	-request-timeout      per-request timeout (e.g., "30s")
//	-retry-attempts       retries after a network failure
//	-retry-delay          first retry backoff (e.g., "200ms")
//	-cache                enable the offline response cache
//	-cache-kind           response cache: memory|sqlite
//	-cache-dsn            sqlite DSN of the response cache
//	-download-concurrency parallel attachment downloads
//	-record               record uid to print
//	-field                field type to print
//	-notation             notation to resolve, e.g. UID/field/password
//	-upload               file to attach to the record
//	-upload-title         attachment title
//	-clipboard            copy the printed value to the clipboard
//	-folders              print the folder hierarchy
func ParseFlags(args []string) (*StructuredConfig, error) {
	cfg := &StructuredConfig{}

	fs := flag.NewFlagSet("ksm", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.JSONFilePath, "c", "", "JSON config file path")
	fs.StringVar(&cfg.JSONFilePath, "config", "", "JSON config file path (alias)")

	fs.StringVar(&cfg.App.LogLevel, "log-level", "", "Log level")
	fs.StringVar(&cfg.App.Token, "token", "", "One-time access token")
	fs.StringVar(&cfg.App.Hostname, "hostname", "", "Vault hostname")

	fs.StringVar(&cfg.Storage.Kind, "storage", "", "Configuration store kind")
	fs.StringVar(&cfg.Storage.Blob, "blob", "", "Base64 configuration")
	fs.StringVar(&cfg.Storage.FilePath, "f", "", "Configuration file path")
	fs.StringVar(&cfg.Storage.DB.DSN, "d", "", "SQLite DSN")
	fs.StringVar(&cfg.Storage.DB.Name, "db-name", "", "Configuration name in SQLite")
	fs.StringVar(&cfg.Storage.AWS.SecretID, "aws-secret-id", "", "AWS secret id")
	fs.StringVar(&cfg.Storage.AWS.Region, "aws-region", "", "AWS region")
	fs.StringVar(&cfg.Storage.AWS.Profile, "aws-profile", "", "AWS profile")

	fs.DurationVar(&cfg.Adapter.RequestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.Uint64Var(&cfg.Adapter.RetryAttempts, "retry-attempts", 0, "Retries after a network failure")
	fs.DurationVar(&cfg.Adapter.RetryBaseDelay, "retry-delay", 0, "First retry backoff (e.g., 200ms)")

	fs.BoolVar(&cfg.Cache.Enabled, "cache", false, "Enable response cache")
	fs.StringVar(&cfg.Cache.Kind, "cache-kind", "", "Response cache kind")
	fs.StringVar(&cfg.Cache.DSN, "cache-dsn", "", "Response cache SQLite DSN")

	fs.IntVar(&cfg.Workers.DownloadConcurrency, "download-concurrency", 0, "Parallel attachment downloads")

	fs.StringVar(&cfg.QuickTest.RecordUID, "record", "", "Record uid")
	fs.StringVar(&cfg.QuickTest.Field, "field", "", "Field type")
	fs.StringVar(&cfg.QuickTest.Notation, "notation", "", "Notation to resolve")
	fs.StringVar(&cfg.QuickTest.UploadPath, "upload", "", "File to attach")
	fs.StringVar(&cfg.QuickTest.UploadTitle, "upload-title", "", "Attachment title")
	fs.BoolVar(&cfg.QuickTest.Clipboard, "clipboard", false, "Copy value to clipboard")
	fs.BoolVar(&cfg.QuickTest.ListFolders, "folders", false, "Print folders")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return cfg, nil
}
