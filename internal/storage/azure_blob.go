package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"go.uber.org/zap"
)

const containerSetupTimeout = 30 * time.Second

// AzureBlobStorage keeps the archive in one blob container
type AzureBlobStorage struct {
	client    *azblob.Client
	container string
	logger    *zap.Logger
}

// NewAzureBlobStorage connects to the account and makes sure the container exists
func NewAzureBlobStorage(connectionString, container string, logger *zap.Logger) (*AzureBlobStorage, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), containerSetupTimeout)
	defer cancel()
	if _, err := client.CreateContainer(ctx, container, nil); err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	logger.Info("Azure Blob Storage initialized", zap.String("container", container))
	return &AzureBlobStorage{client: client, container: container, logger: logger}, nil
}

func (s *AzureBlobStorage) Mode() string {
	return ModeAzure
}

// Put streams the object into a new blob, tagging it with its panel and original name
func (s *AzureBlobStorage) Put(ctx context.Context, obj Object) (Stored, error) {
	key := objectKey(obj.Panel, obj.Filename, time.Now().UTC())
	body := &countingReader{r: obj.Body}

	_, err := s.client.UploadStream(ctx, s.container, key, body, &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &obj.ContentType},
		Metadata: map[string]*string{
			"panel":            &obj.Panel,
			"originalfilename": &obj.Filename,
		},
	})
	if err != nil {
		return Stored{}, fmt.Errorf("failed to upload blob: %w", err)
	}

	s.logger.Debug("image archived",
		zap.String("blob_name", key),
		zap.String("panel", obj.Panel),
		zap.Int64("size", body.n))
	return Stored{Key: key, Size: body.n}, nil
}

// Open streams a blob
func (s *AzureBlobStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, key, nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}
	return resp.Body, nil
}

// Remove deletes a blob
func (s *AzureBlobStorage) Remove(ctx context.Context, key string) error {
	_, err := s.client.DeleteBlob(ctx, s.container, key, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.BlobNotFound) {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
