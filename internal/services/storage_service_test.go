package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/nft-marketplace/internal/config"
)

type fakeS3 struct {
	s3iface.S3API
	puts []*s3.PutObjectInput
	body []string
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, in *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.puts = append(f.puts, in)
	f.body = append(f.body, string(data))
	return &s3.PutObjectOutput{}, nil
}

func TestStorageService_LocalFallback(t *testing.T) {
	svc, err := NewStorageService(config.AWSConfig{MetadataPrefix: "metadata"})
	require.NoError(t, err)
	assert.False(t, svc.Remote())

	uri, err := svc.UploadMetadata(context.Background(), "tok-1", map[string]interface{}{"name": "Ape #1"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "local://metadata/tok-1/"), uri)
	assert.True(t, strings.HasSuffix(uri, ".json"))

	again, err := svc.UploadMetadata(context.Background(), "tok-1", map[string]interface{}{"name": "Ape #1"})
	require.NoError(t, err)
	assert.Equal(t, uri, again)

	empty, err := svc.UploadMetadata(context.Background(), "tok-1", nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStorageService_UploadsToS3(t *testing.T) {
	client := &fakeS3{}
	svc := NewStorageServiceWithClient(client, config.AWSConfig{
		Region:         "us-east-1",
		S3Bucket:       "nft-meta",
		MetadataPrefix: "metadata",
	})

	uri, err := svc.UploadMetadata(context.Background(), "tok-2", map[string]interface{}{"image": "ipfs://x"})
	require.NoError(t, err)

	require.Len(t, client.puts, 1)
	put := client.puts[0]
	assert.Equal(t, "nft-meta", aws.StringValue(put.Bucket))
	assert.Equal(t, "application/json", aws.StringValue(put.ContentType))
	assert.JSONEq(t, `{"image":"ipfs://x"}`, client.body[0])
	assert.Equal(t, "https://nft-meta.s3.us-east-1.amazonaws.com/"+aws.StringValue(put.Key), uri)

	svc.config.CloudFrontURL = "https://cdn.example"
	uri, err = svc.UploadMetadata(context.Background(), "tok-2", map[string]interface{}{"image": "ipfs://x"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "https://cdn.example/metadata/tok-2/"))
}
