package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
	"go.uber.org/zap"
)

// AzureBlobStorage implements Storage for Azure Blob Storage
type AzureBlobStorage struct {
	client        *azblob.Client
	containerName string
	logger        *zap.Logger
}

// NewAzureBlobStorage creates an Azure Blob Storage instance and ensures the
// container exists
func NewAzureBlobStorage(connectionString, containerName string, logger *zap.Logger) (*AzureBlobStorage, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	_, err = client.CreateContainer(context.Background(), containerName, nil)
	if err != nil && !strings.Contains(err.Error(), "ContainerAlreadyExists") {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	logger.Info("Azure Blob Storage initialized",
		zap.String("container", containerName),
	)

	return &AzureBlobStorage{
		client:        client,
		containerName: containerName,
		logger:        logger,
	}, nil
}

// Upload streams the object to the given blob path with its content type
func (s *AzureBlobStorage) Upload(ctx context.Context, path string, contentType string, data io.Reader) (int64, error) {
	uploadOptions := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	reader := &countingReader{r: data}

	_, err := s.client.UploadStream(ctx, s.containerName, path, reader, uploadOptions)
	if err != nil {
		return 0, fmt.Errorf("failed to upload blob: %w", err)
	}

	s.logger.Info("Blob uploaded",
		zap.String("path", path),
		zap.String("container", s.containerName),
		zap.String("contentType", contentType),
		zap.Int64("size", reader.count),
	)

	return reader.count, nil
}

// countingReader wraps an io.Reader and counts the number of bytes read
type countingReader struct {
	r     io.Reader
	count int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.count += int64(n)
	return n, err
}

// Download streams the blob contents
func (s *AzureBlobStorage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.containerName, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}
	return resp.Body, nil
}

// Delete removes the blob; a missing blob is treated as already deleted
func (s *AzureBlobStorage) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteBlob(ctx, s.containerName, path, nil)
	if err != nil {
		if strings.Contains(err.Error(), "BlobNotFound") {
			s.logger.Debug("Blob already deleted or not found",
				zap.String("path", path),
				zap.String("container", s.containerName),
			)
			return nil
		}
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	s.logger.Info("Blob deleted",
		zap.String("path", path),
		zap.String("container", s.containerName),
	)
	return nil
}

// List returns every blob under the given prefix
func (s *AzureBlobStorage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	pager := s.client.NewListBlobsFlatPager(s.containerName, &container.ListBlobsFlatOptions{
		Prefix: &prefix,
	})

	var objects []ObjectInfo
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs: %w", err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			info := ObjectInfo{Path: *item.Name}
			if item.Properties != nil {
				if item.Properties.CreationTime != nil {
					info.CreatedAt = *item.Properties.CreationTime
				} else if item.Properties.LastModified != nil {
					info.CreatedAt = *item.Properties.LastModified
				}
				if item.Properties.ContentLength != nil {
					info.Size = *item.Properties.ContentLength
				}
			}
			objects = append(objects, info)
		}
	}
	return objects, nil
}

// SignedURL returns a read-only SAS URL for the blob, valid for ttl.
// Requires a shared-key connection string.
func (s *AzureBlobStorage) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	blobClient := s.client.ServiceClient().
		NewContainerClient(s.containerName).
		NewBlobClient(path)

	url, err := blobClient.GetSASURL(
		sas.BlobPermissions{Read: true},
		time.Now().UTC().Add(ttl),
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate SAS URL: %w", err)
	}
	return url, nil
}
