// Package storage archives settled flight records to S3-compatible
// object storage. Records are immutable once written; the object key is
// derived from the session ID so a retried archive overwrites with
// identical content.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/skyward-io/skyward/internal/core/model"
	"github.com/skyward-io/skyward/pkg/log"
	"github.com/skyward-io/skyward/pkg/options"
)

// MinIO archives flight records to a bucket via the S3 protocol.
type MinIO struct {
	client     *minio.Client
	bucketName string
}

// NewMinIO creates the S3-backed archive.
func NewMinIO(opts *options.S3Options) (*MinIO, error) {
	minioOpts := &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	}

	client, err := minio.New(opts.Endpoint, minioOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinIO{
		client:     client,
		bucketName: opts.BucketName,
	}, nil
}

// CheckBucket ensures the archive bucket exists, creating it when
// missing. Bucket creation is a development convenience; production
// buckets are managed externally.
func (p *MinIO) CheckBucket(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		log.Info("Bucket does not exist, creating...", "bucket", p.bucketName)
		if err := p.client.MakeBucket(ctx, p.bucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// Archive writes one settled record as JSON under
// records/{companyID}/{sessionID}.json.
func (p *MinIO) Archive(ctx context.Context, result *model.SettlementResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal flight record: %w", err)
	}

	key := fmt.Sprintf("records/%s/%s.json", result.CompanyID, result.SessionID)
	_, err = p.client.PutObject(ctx, p.bucketName, key,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to archive flight record: %w", err)
	}

	log.Debug("flight record archived", "bucket", p.bucketName, "key", key)
	return nil
}
