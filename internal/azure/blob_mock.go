package azure

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// MockBlobStorageClient is an in-memory BlobStorage for tests and local runs
type MockBlobStorageClient struct {
	Storage map[string][]byte
	mu      sync.RWMutex
	logger  *zap.Logger

	// FailUploads makes every upload return an error
	FailUploads bool
}

// NewMockBlobStorageClient creates a new mock blob storage client
func NewMockBlobStorageClient(logger *zap.Logger) *MockBlobStorageClient {
	return &MockBlobStorageClient{
		Storage: make(map[string][]byte),
		logger:  logger,
	}
}

// UploadDocument stores a copy of data under blobName
func (c *MockBlobStorageClient) UploadDocument(ctx context.Context, blobName string, data []byte, contentType string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.FailUploads {
		return "", fmt.Errorf("mock: upload of %s rejected", blobName)
	}
	if blobName == "" {
		return "", fmt.Errorf("blob name is required")
	}

	c.Storage[blobName] = bytes.Clone(data)

	if c.logger != nil {
		c.logger.Debug("mock: blob uploaded",
			zap.String("blob_name", blobName),
			zap.String("content_type", contentType),
			zap.Int("size_bytes", len(data)),
		)
	}

	return blobName, nil
}

// DownloadDocument returns a copy of the stored blob
func (c *MockBlobStorageClient) DownloadDocument(ctx context.Context, blobName string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, exists := c.Storage[blobName]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, blobName)
	}

	return bytes.Clone(data), nil
}

// DeleteDocument removes a blob if present
func (c *MockBlobStorageClient) DeleteDocument(ctx context.Context, blobName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.Storage, blobName)
	return nil
}

// UploadPDF stores a report under ReportsPrefix
func (c *MockBlobStorageClient) UploadPDF(ctx context.Context, filename string, data []byte) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename is required")
	}
	return c.UploadDocument(ctx, path.Join(ReportsPrefix, filename), data, "application/pdf")
}

// Clear removes all data from in-memory storage
func (c *MockBlobStorageClient) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Storage = make(map[string][]byte)
}

// ListBlobs returns all blob names in storage, sorted
func (c *MockBlobStorageClient) ListBlobs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	blobs := make([]string, 0, len(c.Storage))
	for name := range c.Storage {
		blobs = append(blobs, name)
	}
	sort.Strings(blobs)

	return blobs
}
