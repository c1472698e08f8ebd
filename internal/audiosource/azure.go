package audiosource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

const blobHostSuffix = ".blob.core.windows.net"

// IsBlobURL reports whether ref is an https URL on an Azure Blob Storage
// account endpoint.
func IsBlobURL(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "https" {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Hostname()), blobHostSuffix)
}

// AzureDownloader downloads blobs from Azure Blob Storage. URLs carrying a
// SAS token are fetched anonymously; others use the default Azure credential
// chain, created on first use.
type AzureDownloader struct {
	credOnce sync.Once
	cred     azcore.TokenCredential
	credErr  error
}

// Download opens the blob at blobURL for reading.
func (d *AzureDownloader) Download(ctx context.Context, blobURL string) (io.ReadCloser, error) {
	parts, err := azblob.ParseURL(blobURL)
	if err != nil {
		return nil, fmt.Errorf("parsing blob URL: %w", err)
	}
	if parts.ContainerName == "" || parts.BlobName == "" {
		return nil, fmt.Errorf("blob URL %q must name a container and a blob", blobURL)
	}

	serviceURL := parts.Scheme + "://" + parts.Host + "/"

	var client *azblob.Client
	if sas := parts.SAS.Encode(); sas != "" {
		client, err = azblob.NewClientWithNoCredential(serviceURL+"?"+sas, nil)
	} else {
		cred, credErr := d.credential()
		if credErr != nil {
			return nil, credErr
		}
		client, err = azblob.NewClient(serviceURL, cred, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("creating blob client: %w", err)
	}

	resp, err := client.DownloadStream(ctx, parts.ContainerName, parts.BlobName, nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, parts.ContainerName, parts.BlobName)
		}
		return nil, fmt.Errorf("downloading blob: %w", err)
	}
	return resp.Body, nil
}

func (d *AzureDownloader) credential() (azcore.TokenCredential, error) {
	d.credOnce.Do(func() {
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			d.credErr = fmt.Errorf("creating Azure credential: %w", err)
			return
		}
		d.cred = cred
	})
	return d.cred, d.credErr
}
