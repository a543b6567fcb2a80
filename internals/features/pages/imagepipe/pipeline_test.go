package imagepipe

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noiseRGBA(w, h int, seed int64) *image.RGBA {
	r := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	r.Read(img.Pix)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}

func encodeJPEG(t *testing.T, img image.Image, q int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}))
	return buf.Bytes()
}

func TestOptimizeOne_SmallPNGUnchanged(t *testing.T) {
	data := bytes.Repeat([]byte{0x42}, 50*1024)
	in := File{Name: "small.png", ContentType: "image/png", Data: data}

	out := OptimizeOne(in)
	assert.Equal(t, in, out)
}

func TestOptimizeOne_LargeJPEGIsFittedAndReencoded(t *testing.T) {
	raw := encodeJPEG(t, noiseRGBA(2400, 1600, 1), 100)
	require.Greater(t, len(raw), SizeThreshold)

	out := OptimizeOne(File{Name: "big.jpeg", ContentType: "image/jpeg", Data: raw})
	assert.Equal(t, "image/jpeg", out.ContentType)
	assert.Equal(t, "big.jpg", out.Name)
	assert.Less(t, len(out.Data), len(raw))

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width, MaxDimension)
	assert.LessOrEqual(t, cfg.Height, MaxDimension)
	assert.Equal(t, 1920, cfg.Width)
	assert.Equal(t, 1280, cfg.Height)
}

func TestOptimizeOne_TransparencyFlattenedToWhite(t *testing.T) {
	img := noiseRGBA(800, 800, 2)
	// left half fully transparent
	for y := 0; y < 800; y++ {
		for x := 0; x < 400; x++ {
			img.Set(x, y, color.RGBA{})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.Greater(t, buf.Len(), SizeThreshold)

	out := OptimizeOne(File{Name: "alpha.png", ContentType: "image/png", Data: buf.Bytes()})
	require.Equal(t, "image/jpeg", out.ContentType)

	dec, err := jpeg.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	r, g, b, _ := dec.At(10, 10).RGBA()
	assert.Greater(t, r>>8, uint32(240))
	assert.Greater(t, g>>8, uint32(240))
	assert.Greater(t, b>>8, uint32(240))
}

func TestOptimizeOne_FallsBackToOriginal(t *testing.T) {
	corrupt := File{Name: "broken.jpg", ContentType: "image/jpeg", Data: bytes.Repeat([]byte{0x01}, SizeThreshold+10)}
	assert.Equal(t, corrupt, OptimizeOne(corrupt))

	notImage := File{Name: "notes.pdf", ContentType: "application/pdf", Data: bytes.Repeat([]byte{0x01}, SizeThreshold*2)}
	assert.Equal(t, notImage, OptimizeOne(notImage))
}

func TestOptimize_PreservesOrder(t *testing.T) {
	big := encodeJPEG(t, noiseRGBA(2100, 900, 4), 100)
	files := []File{
		{Name: "0.png", ContentType: "image/png", Data: []byte("tiny")},
		{Name: "1.jpg", ContentType: "image/jpeg", Data: big},
		{Name: "2.txt", ContentType: "text/plain", Data: []byte("hello")},
		{Name: "3.gif", ContentType: "image/gif", Data: []byte("GIF89a")},
	}

	out := Optimize(context.Background(), files)
	require.Len(t, out, 4)
	assert.Equal(t, files[0], out[0])
	assert.Equal(t, "1.jpg", out[1].Name)
	assert.Less(t, len(out[1].Data), len(big))
	assert.Equal(t, files[2], out[2])
	assert.Equal(t, files[3], out[3])
}
