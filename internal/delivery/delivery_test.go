package delivery

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileDeliverer_WritesIntoDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	d := FileDeliverer{Dir: dir}

	r, err := d.Deliver(context.Background(), File{Name: "Deck_corporate_2025-03-01.pptx", Data: []byte("PK")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Deck_corporate_2025-03-01.pptx"), r.Location)
	assert.Equal(t, int64(2), r.Size)

	data, err := os.ReadFile(r.Location)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileDeliverer_StripsDirectoryFromName(t *testing.T) {
	dir := t.TempDir()
	r, err := FileDeliverer{Dir: dir}.Deliver(context.Background(), File{Name: "../../escape.pptx", Data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.pptx"), r.Location)
}

func TestFileDeliverer_Errors(t *testing.T) {
	var de *Error

	_, err := FileDeliverer{Dir: t.TempDir()}.Deliver(context.Background(), File{Name: "  "})
	require.ErrorAs(t, err, &de)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = FileDeliverer{Dir: t.TempDir()}.Deliver(ctx, File{Name: "a.pptx"})
	require.ErrorAs(t, err, &de)
	assert.ErrorIs(t, err, context.Canceled)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	_, err = FileDeliverer{Dir: filepath.Join(blocker, "sub")}.Deliver(context.Background(), File{Name: "a.pptx"})
	assert.ErrorAs(t, err, &de)
}

func TestHTTPDeliverer_AttachmentHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	r, err := HTTPDeliverer{W: rec}.Deliver(context.Background(), File{Name: "Campaña_modern_2025-03-01.pptx", Data: []byte("deck")})
	require.NoError(t, err)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, PPTXContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "4", rec.Header().Get("Content-Length"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, "deck", rec.Body.String())
	assert.Equal(t, int64(4), r.Size)
}

type fakeObjectClient struct {
	buckets  map[string]bool
	objects  map[string][]byte
	types    map[string]string
	putErr   error
	made     []string
	presigns int
}

func newFakeObjectClient() *fakeObjectClient {
	return &fakeObjectClient{buckets: map[string]bool{}, objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjectClient) BucketExists(_ context.Context, bucket string) (bool, error) {
	return f.buckets[bucket], nil
}

func (f *fakeObjectClient) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	f.buckets[bucket] = true
	f.made = append(f.made, bucket)
	return nil
}

func (f *fakeObjectClient) PutObject(_ context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[bucket+"/"+object] = data
	f.types[bucket+"/"+object] = opts.ContentType
	return minio.UploadInfo{Bucket: bucket, Key: object, Size: size}, nil
}

func (f *fakeObjectClient) PresignedGetObject(_ context.Context, bucket, object string, _ time.Duration, _ url.Values) (*url.URL, error) {
	f.presigns++
	return url.Parse("https://storage.example.com/" + bucket + "/" + object + "?sig=1")
}

func TestObjectStoreDeliverer_UploadsAndCreatesBucket(t *testing.T) {
	client := newFakeObjectClient()
	d := NewObjectStoreWithClient(client, ObjectStoreConfig{Bucket: "decks", Prefix: "/reports/"})

	r, err := d.Deliver(context.Background(), File{Name: "a.pptx", Data: []byte("abc")})
	require.NoError(t, err)

	assert.Equal(t, []string{"decks"}, client.made)
	assert.Equal(t, []byte("abc"), client.objects["decks/reports/a.pptx"])
	assert.Equal(t, PPTXContentType, client.types["decks/reports/a.pptx"])
	assert.Equal(t, "s3://decks/reports/a.pptx", r.Location)
	assert.Equal(t, int64(3), r.Size)
	assert.Zero(t, client.presigns)

	_, err = d.Deliver(context.Background(), File{Name: "b.pptx", Data: []byte("x")})
	require.NoError(t, err)
	assert.Len(t, client.made, 1)
}

func TestObjectStoreDeliverer_PresignedLink(t *testing.T) {
	client := newFakeObjectClient()
	d := NewObjectStoreWithClient(client, ObjectStoreConfig{Bucket: "decks", LinkTTL: time.Hour})

	r, err := d.Deliver(context.Background(), File{Name: "a.pptx", Data: []byte("abc")})
	require.NoError(t, err)
	assert.Equal(t, "https://storage.example.com/decks/a.pptx?sig=1", r.Location)
}

func TestObjectStoreDeliverer_UploadFailure(t *testing.T) {
	client := newFakeObjectClient()
	client.putErr = errors.New("connection reset")
	d := NewObjectStoreWithClient(client, ObjectStoreConfig{Bucket: "decks"})

	_, err := d.Deliver(context.Background(), File{Name: "a.pptx", Data: []byte("abc")})
	var de *Error
	require.ErrorAs(t, err, &de)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestNewObjectStore_RequiresConfig(t *testing.T) {
	_, err := NewObjectStore(ObjectStoreConfig{})
	var de *Error
	assert.ErrorAs(t, err, &de)
	assert.False(t, ObjectStoreConfig{Endpoint: "localhost:9000"}.Enabled())
	assert.True(t, ObjectStoreConfig{Endpoint: "localhost:9000", Bucket: "b"}.Enabled())
}
