package helper

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBlobService_UploadDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBlobService("http://blobs.test/")

	url, err := m.Upload(ctx, "/pages/ana__bia_abc123/photo_0.jpg", []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://blobs.test/pages/ana__bia_abc123/photo_0.jpg", url)

	data, ct, ok := m.Get(url)
	require.True(t, ok)
	assert.Equal(t, []byte("jpeg"), data)
	assert.Equal(t, "image/jpeg", ct)

	require.NoError(t, m.Delete(ctx, url))
	require.NoError(t, m.Delete(ctx, url), "second delete is a no-op")
	assert.Empty(t, m.Keys())
}

func TestExtractKey(t *testing.T) {
	k, err := extractKey("https://cdn.test/uploads/pages/a/photo_1.jpg", "https://cdn.test/")
	require.NoError(t, err)
	assert.Equal(t, "uploads/pages/a/photo_1.jpg", k)

	k, err = extractKey("https://bucket.oss-ap.aliyuncs.com/pages/a/photo_1.jpg", "")
	require.NoError(t, err)
	assert.Equal(t, "pages/a/photo_1.jpg", k)

	_, err = extractKey("", "")
	assert.Error(t, err)
	_, err = extractKey("https://host-only/", "")
	assert.Error(t, err)
}

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	deletes []*s3.DeleteObjectInput
	putErr  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, in)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Service_UploadAndDelete(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{}
	svc := &S3Service{Client: fake, BucketName: "pages", PublicBase: "http://127.0.0.1:9000/pages", Prefix: "prod"}

	url, err := svc.Upload(ctx, "pages/x/photo_0.jpg", []byte{1, 2, 3}, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/pages/prod/pages/x/photo_0.jpg", url)

	require.Len(t, fake.puts, 1)
	assert.Equal(t, "prod/pages/x/photo_0.jpg", *fake.puts[0].Key)
	assert.Equal(t, "image/jpeg", *fake.puts[0].ContentType)
	assert.Equal(t, int64(3), *fake.puts[0].ContentLength)
	body, _ := io.ReadAll(fake.puts[0].Body)
	assert.Equal(t, []byte{1, 2, 3}, body)

	require.NoError(t, svc.Delete(ctx, url))
	require.Len(t, fake.deletes, 1)
	assert.Equal(t, "prod/pages/x/photo_0.jpg", *fake.deletes[0].Key)

	fake.putErr = errors.New("boom")
	_, err = svc.Upload(ctx, "pages/x/photo_1.jpg", []byte{1}, "image/jpeg")
	assert.ErrorContains(t, err, "boom")
}

func TestMockBlobService_NotImplemented(t *testing.T) {
	m := &MockBlobService{}
	_, err := m.Upload(context.Background(), "a", nil, "")
	assert.Error(t, err)
	assert.Error(t, m.Delete(context.Background(), "a"))
}

func buildForm(t *testing.T, files map[string][]string) *multipart.Form {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field, names := range files {
		for _, name := range names {
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+name+`"`)
			h.Set("Content-Type", "application/octet-stream")
			part, err := w.CreatePart(h)
			require.NoError(t, err)
			_, _ = part.Write([]byte("\x89PNG\r\n\x1a\n" + name))
		}
	}
	require.NoError(t, w.Close())
	r := multipart.NewReader(&buf, w.Boundary())
	form, err := r.ReadForm(1 << 20)
	require.NoError(t, err)
	return form
}

func TestCollectUploadFiles_AndRead(t *testing.T) {
	form := buildForm(t, map[string][]string{
		"photos[]": {"a.png", "b.png"},
		"other":    {"c.png"},
	})

	files, keys := CollectUploadFiles(form, nil)
	require.Len(t, files, 3)
	assert.Equal(t, "a.png", files[0].Filename)
	assert.Equal(t, "b.png", files[1].Filename)
	assert.Equal(t, []string{"photos[]", "other"}, keys)

	data, ct, err := ReadFormFile(files[0], 1<<20)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.NotEmpty(t, data)

	_, _, err = ReadFormFile(files[0], 3)
	assert.Error(t, err)
}

func TestCollectUploadFiles_NonCandidateKeysSorted(t *testing.T) {
	form := buildForm(t, map[string][]string{
		"zeta":   {"z.png"},
		"alpha":  {"a.png"},
		"mid":    {"m.png"},
		"images": {"i.png"},
	})

	for i := 0; i < 20; i++ {
		files, keys := CollectUploadFiles(form, nil)
		require.Len(t, files, 4)
		assert.Equal(t, []string{"images", "alpha", "mid", "zeta"}, keys)
		names := []string{files[0].Filename, files[1].Filename, files[2].Filename, files[3].Filename}
		assert.Equal(t, []string{"i.png", "a.png", "m.png", "z.png"}, names)
	}
}
