// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awssm "github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"

	"github.com/MKhiriev/go-secrets-manager/internal/logger"
	"github.com/MKhiriev/go-secrets-manager/models"
)

const resourceNotFoundException = "ResourceNotFoundException"

// SMClient is the subset of the AWS Secrets Manager API used by
// [AWSSecretsManagerStorage].
type SMClient interface {
	GetSecretValue(ctx context.Context, params *awssm.GetSecretValueInput, optFuncs ...func(*awssm.Options)) (*awssm.GetSecretValueOutput, error)
	CreateSecret(ctx context.Context, params *awssm.CreateSecretInput, optFuncs ...func(*awssm.Options)) (*awssm.CreateSecretOutput, error)
	PutSecretValue(ctx context.Context, params *awssm.PutSecretValueInput, optFuncs ...func(*awssm.Options)) (*awssm.PutSecretValueOutput, error)
}

// AWSSecretsManagerStorage keeps the configuration blob as the SecretString
// of an AWS Secrets Manager secret. The secret is created on first Save.
type AWSSecretsManagerStorage struct {
	client   SMClient
	secretID string
	logger   *logger.Logger

	mu sync.Mutex
}

// NewAWSSecretsManagerStorage wraps an existing Secrets Manager client.
func NewAWSSecretsManagerStorage(client SMClient, secretID string, log *logger.Logger) *AWSSecretsManagerStorage {
	return &AWSSecretsManagerStorage{client: client, secretID: secretID, logger: log}
}

// NewAWSSecretsManagerClient builds a Secrets Manager client from the
// default AWS config chain, optionally pinned to region and profile.
func NewAWSSecretsManagerClient(ctx context.Context, region, profile string) (*awssm.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %w", ErrStorage, err)
	}
	return awssm.NewFromConfig(cfg), nil
}

// Load implements [ConfigStorage].
func (s *AWSSecretsManagerStorage) Load(ctx context.Context) (models.Configuration, error) {
	out, err := s.client.GetSecretValue(ctx, &awssm.GetSecretValueInput{SecretId: aws.String(s.secretID)})
	if err != nil {
		if isResourceNotFound(err) {
			return models.Configuration{}, ErrConfigNotFound
		}
		s.logger.Err(err).Str("func", "AWSSecretsManagerStorage.Load").Str("secret_id", s.secretID).Msg("failed to get secret value")
		return models.Configuration{}, fmt.Errorf("%w: get secret %s: %w", ErrStorage, s.secretID, err)
	}

	blob := aws.ToString(out.SecretString)
	if blob == "" && len(out.SecretBinary) > 0 {
		blob = string(out.SecretBinary)
	}

	cfg, err := models.ParseConfigurationBlob(blob)
	if err != nil {
		return models.Configuration{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return cfg, nil
}

// Save implements [ConfigStorage].
func (s *AWSSecretsManagerStorage) Save(ctx context.Context, cfg models.Configuration) error {
	blob, err := cfg.Blob()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.client.PutSecretValue(ctx, &awssm.PutSecretValueInput{
		SecretId:     aws.String(s.secretID),
		SecretString: aws.String(blob),
	})
	if err == nil {
		return nil
	}
	if !isResourceNotFound(err) {
		s.logger.Err(err).Str("func", "AWSSecretsManagerStorage.Save").Str("secret_id", s.secretID).Msg("failed to put secret value")
		return fmt.Errorf("%w: put secret %s: %w", ErrStorage, s.secretID, err)
	}

	s.logger.Info().Str("func", "AWSSecretsManagerStorage.Save").Str("secret_id", s.secretID).Msg("secret not found, creating")
	_, err = s.client.CreateSecret(ctx, &awssm.CreateSecretInput{
		Name:         aws.String(s.secretID),
		SecretString: aws.String(blob),
		Description:  aws.String("secrets manager client configuration"),
	})
	if err != nil {
		return fmt.Errorf("%w: create secret %s: %w", ErrStorage, s.secretID, err)
	}
	return nil
}

func isResourceNotFound(err error) bool {
	var aerr smithy.APIError
	return errors.As(err, &aerr) && aerr.ErrorCode() == resourceNotFoundException
}
