package delivery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStoreConfig configures the S3-compatible bucket decks are uploaded to
type ObjectStoreConfig struct {
	Endpoint  string        `json:"endpoint"`
	AccessKey string        `json:"access_key"`
	SecretKey string        `json:"secret_key"`
	Bucket    string        `json:"bucket"`
	Region    string        `json:"region,omitempty"`
	Prefix    string        `json:"prefix,omitempty"`
	UseSSL    bool          `json:"use_ssl"`
	LinkTTL   time.Duration `json:"link_ttl,omitempty"`
}

// Enabled reports whether enough is configured to connect
func (c ObjectStoreConfig) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

// ObjectClient is the subset of *minio.Client the deliverer needs
type ObjectClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// ObjectStoreDeliverer uploads decks to a bucket and returns a download link
type ObjectStoreDeliverer struct {
	client ObjectClient
	cfg    ObjectStoreConfig
}

// NewObjectStore connects to the configured endpoint
func NewObjectStore(cfg ObjectStoreConfig) (*ObjectStoreDeliverer, error) {
	if !cfg.Enabled() {
		return nil, &Error{Message: "object store endpoint and bucket are required"}
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, &Error{Message: "failed to create object store client", Cause: err}
	}
	return NewObjectStoreWithClient(client, cfg), nil
}

// NewObjectStoreWithClient builds a deliverer around an existing client
func NewObjectStoreWithClient(client ObjectClient, cfg ObjectStoreConfig) *ObjectStoreDeliverer {
	return &ObjectStoreDeliverer{client: client, cfg: cfg}
}

// ObjectName is the key a file is stored under
func (d *ObjectStoreDeliverer) ObjectName(fileName string) string {
	prefix := strings.Trim(d.cfg.Prefix, "/")
	if prefix == "" {
		return fileName
	}
	return path.Join(prefix, fileName)
}

// Deliver uploads the file, creating the bucket on first use. When LinkTTL is
// set the receipt carries a presigned download URL, otherwise an s3:// location.
func (d *ObjectStoreDeliverer) Deliver(ctx context.Context, f File) (Receipt, error) {
	if strings.TrimSpace(f.Name) == "" {
		return Receipt{}, &Error{Message: "file has no name"}
	}

	exists, err := d.client.BucketExists(ctx, d.cfg.Bucket)
	if err != nil {
		return Receipt{}, &Error{Message: "failed to check bucket " + d.cfg.Bucket, Cause: err}
	}
	if !exists {
		if err := d.client.MakeBucket(ctx, d.cfg.Bucket, minio.MakeBucketOptions{Region: d.cfg.Region}); err != nil {
			return Receipt{}, &Error{Message: "failed to create bucket " + d.cfg.Bucket, Cause: err}
		}
	}

	object := d.ObjectName(f.Name)
	info, err := d.client.PutObject(ctx, d.cfg.Bucket, object, bytes.NewReader(f.Data), int64(len(f.Data)), minio.PutObjectOptions{
		ContentType: f.contentType(),
	})
	if err != nil {
		return Receipt{}, &Error{Message: "failed to upload " + object, Cause: err}
	}

	location := fmt.Sprintf("s3://%s/%s", d.cfg.Bucket, object)
	if d.cfg.LinkTTL > 0 {
		params := url.Values{}
		params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
		u, err := d.client.PresignedGetObject(ctx, d.cfg.Bucket, object, d.cfg.LinkTTL, params)
		if err != nil {
			return Receipt{}, &Error{Message: "failed to presign " + object, Cause: err}
		}
		location = u.String()
	}
	return Receipt{Location: location, Size: info.Size}, nil
}
