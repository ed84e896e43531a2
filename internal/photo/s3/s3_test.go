package s3

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	lastPut *awss3.PutObjectInput
	err     error
}

func (c *fakeClient) PutObject(_ context.Context, params *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	c.lastPut = params
	return &awss3.PutObjectOutput{}, c.err
}

func TestUpload(t *testing.T) {
	client := &fakeClient{}
	storage := New(client, "images-test")

	err := storage.Upload(context.Background(), "rec-1.jpg", strings.NewReader("jpeg bytes"), "image/jpeg")
	require.NoError(t, err)

	require.NotNil(t, client.lastPut)
	assert.Equal(t, "images-test", aws.ToString(client.lastPut.Bucket))
	assert.Equal(t, "rec-1.jpg", aws.ToString(client.lastPut.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(client.lastPut.ContentType))

	data, err := io.ReadAll(client.lastPut.Body)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))
}

func TestUpload_WrapsClientError(t *testing.T) {
	client := &fakeClient{err: assert.AnError}
	storage := New(client, "images-test")

	err := storage.Upload(context.Background(), "rec-1.jpg", strings.NewReader(""), "image/jpeg")
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "rec-1.jpg")
}
