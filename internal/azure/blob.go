package azure

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"go.uber.org/zap"
)

// ReportsPrefix is the virtual directory exported PDF reports are written under
const ReportsPrefix = "reports"

// BlobStorageClient wraps Azure Blob Storage SDK for snapshot and report blobs
type BlobStorageClient struct {
	client        *azblob.Client
	containerName string
	logger        *zap.Logger
}

// NewBlobStorageClient creates a new Azure Blob Storage client
func NewBlobStorageClient(accountName, accountKey, containerName string, logger *zap.Logger) (*BlobStorageClient, error) {
	if accountName == "" || accountKey == "" || containerName == "" {
		return nil, fmt.Errorf("accountName, accountKey, and containerName are required")
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)

	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create shared key credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &BlobStorageClient{
		client:        client,
		containerName: containerName,
		logger:        logger,
	}, nil
}

// NewBlobStorageClientFromConnectionString creates a client from an account
// connection string, which is how Azurite and most deployments are configured
func NewBlobStorageClientFromConnectionString(connectionString, containerName string, logger *zap.Logger) (*BlobStorageClient, error) {
	if connectionString == "" || containerName == "" {
		return nil, fmt.Errorf("connectionString and containerName are required")
	}

	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &BlobStorageClient{
		client:        client,
		containerName: containerName,
		logger:        logger,
	}, nil
}

// UploadDocument writes data to blobName, replacing any existing blob
func (c *BlobStorageClient) UploadDocument(ctx context.Context, blobName string, data []byte, contentType string) (string, error) {
	if blobName == "" {
		return "", fmt.Errorf("blob name is required")
	}

	c.logger.Debug("uploading blob",
		zap.String("blob_name", blobName),
		zap.Int("size_bytes", len(data)),
	)

	blobClient := c.client.ServiceClient().NewContainerClient(c.containerName).NewBlockBlobClient(blobName)

	_, err := blobClient.UploadBuffer(ctx, data, &azblob.UploadBufferOptions{
		Metadata: map[string]*string{
			"contenttype": toPtr(contentType),
		},
	})
	if err != nil {
		c.logger.Error("failed to upload blob",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to upload blob %s: %w", blobName, err)
	}

	return blobName, nil
}

// DownloadDocument reads the whole blob. A missing blob yields ErrBlobNotFound.
func (c *BlobStorageClient) DownloadDocument(ctx context.Context, blobName string) ([]byte, error) {
	blobClient := c.client.ServiceClient().NewContainerClient(c.containerName).NewBlockBlobClient(blobName)

	downloadResponse, err := blobClient.DownloadStream(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, blobName)
		}
		c.logger.Error("failed to download blob",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to download blob %s: %w", blobName, err)
	}
	defer downloadResponse.Body.Close()

	data, err := io.ReadAll(downloadResponse.Body)
	if err != nil {
		c.logger.Error("failed to read blob data",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to read blob data: %w", err)
	}

	return data, nil
}

// DeleteDocument removes a blob. Deleting a missing blob is not an error.
func (c *BlobStorageClient) DeleteDocument(ctx context.Context, blobName string) error {
	_, err := c.client.DeleteBlob(ctx, c.containerName, blobName, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.BlobNotFound) {
		c.logger.Error("failed to delete blob",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return fmt.Errorf("failed to delete blob %s: %w", blobName, err)
	}
	return nil
}

// UploadPDF uploads an exported report under ReportsPrefix
func (c *BlobStorageClient) UploadPDF(ctx context.Context, filename string, data []byte) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename is required")
	}

	blobName, err := c.UploadDocument(ctx, path.Join(ReportsPrefix, filename), data, "application/pdf")
	if err != nil {
		return "", err
	}

	c.logger.Info("PDF uploaded successfully",
		zap.String("blob_name", blobName),
		zap.Int("size_bytes", len(data)),
	)
	return blobName, nil
}

func toPtr(s string) *string {
	return &s
}
