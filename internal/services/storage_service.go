// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/nft-marketplace/internal/config"
	"github.com/javajoker/nft-marketplace/internal/utils"
)

// StorageService stores NFT metadata documents. Without AWS credentials it
// only computes the local URI the document would live at.
type StorageService struct {
	s3Client s3iface.S3API
	config   config.AWSConfig
}

func NewStorageService(cfg config.AWSConfig) (*StorageService, error) {
	if cfg.AccessKeyID == "" || cfg.S3Bucket == "" {
		// Return service without S3 for local development
		return &StorageService{config: cfg}, nil
	}

	// Create AWS session
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return NewStorageServiceWithClient(s3.New(sess), cfg), nil
}

func NewStorageServiceWithClient(client s3iface.S3API, cfg config.AWSConfig) *StorageService {
	return &StorageService{s3Client: client, config: cfg}
}

// Remote reports whether documents are written to S3.
func (s *StorageService) Remote() bool {
	return s.s3Client != nil
}

// UploadMetadata writes metadata as JSON and returns its URI. The object key
// is content addressed, so re-uploading the same document is idempotent.
// Empty metadata uploads nothing and returns "".
func (s *StorageService) UploadMetadata(ctx context.Context, tokenID string, metadata map[string]interface{}) (string, error) {
	if len(metadata) == 0 {
		return "", nil
	}

	body, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}

	key := path.Join(s.config.MetadataPrefix, url.PathEscape(tokenID), utils.HashBytes(body)+".json")

	if s.s3Client == nil {
		uri := "local://" + key
		logrus.WithFields(logrus.Fields{
			"token_id": tokenID,
			"uri":      uri,
		}).Debug("S3 not configured, metadata kept local")
		return uri, nil
	}

	_, err = s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload metadata to S3: %w", err)
	}

	return s.objectURL(key), nil
}

func (s *StorageService) objectURL(key string) string {
	if s.config.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.config.CloudFrontURL, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.S3Bucket, s.config.Region, key)
}
