package util

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sunthewhat/easy-cert-batch/common"
)

// InitMinIO connects the archive mirror. It is a no-op when no archive
// bucket is configured.
func InitMinIO() error {
	if common.Config.BucketArchive == nil || *common.Config.BucketArchive == "" {
		return nil
	}
	if common.Config.MinIoEndpoint == nil || common.Config.MinIoAccessKey == nil || common.Config.MinIoSecretKey == nil {
		return fmt.Errorf("MinIO configuration is incomplete")
	}

	client, err := minio.New(*common.Config.MinIoEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(*common.Config.MinIoAccessKey, *common.Config.MinIoSecretKey, ""),
		Secure: Deref(common.Config.MinIoSecure, true),
	})

	if err != nil {
		return fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	common.MinIOClient = client
	return nil
}

// MinIOArchiveSink mirrors finished archives into a bucket.
type MinIOArchiveSink struct {
	client   *minio.Client
	endpoint string
	bucket   string
}

func NewMinIOArchiveSink(client *minio.Client, endpoint string, bucket string) *MinIOArchiveSink {
	return &MinIOArchiveSink{client: client, endpoint: endpoint, bucket: bucket}
}

// ArchiveObjectName builds "<jobID>/certificates_<unix>_<uuid>.zip".
func ArchiveObjectName(jobID string, now time.Time) string {
	return fmt.Sprintf("%s/certificates_%d_%s.zip", jobID, now.Unix(), strings.ReplaceAll(uuid.New().String(), "-", ""))
}

// Put uploads the archive and returns its direct URL.
func (s *MinIOArchiveSink) Put(ctx context.Context, jobID string, archive []byte) (string, error) {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return "", fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return "", fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	objectName := ArchiveObjectName(jobID, time.Now())
	_, err = s.client.PutObject(
		ctx,
		s.bucket,
		objectName,
		bytes.NewReader(archive),
		int64(len(archive)),
		minio.PutObjectOptions{
			ContentType: "application/zip",
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload archive: %w", err)
	}

	url := fmt.Sprintf("https://%s/%s/%s", s.endpoint, s.bucket, objectName)
	slog.Info("Archive mirrored to MinIO", "job_id", jobID, "object", objectName, "url", url)
	return url, nil
}
