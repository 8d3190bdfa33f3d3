package azure

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned when a requested blob does not exist
var ErrBlobNotFound = errors.New("blob not found")

// BlobStorage defines the blob operations used for snapshot documents and
// exported reports. It allows tests to run against the in-memory mock.
type BlobStorage interface {
	UploadDocument(ctx context.Context, blobName string, data []byte, contentType string) (string, error)
	DownloadDocument(ctx context.Context, blobName string) ([]byte, error)
	DeleteDocument(ctx context.Context, blobName string) error
	UploadPDF(ctx context.Context, filename string, data []byte) (string, error)
}

// Ensure BlobStorageClient implements BlobStorage interface
var _ BlobStorage = (*BlobStorageClient)(nil)
var _ BlobStorage = (*MockBlobStorageClient)(nil)
