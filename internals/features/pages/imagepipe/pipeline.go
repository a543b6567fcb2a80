// file: internals/features/pages/imagepipe/pipeline.go

// Package imagepipe shrinks large photos before they are uploaded.
package imagepipe

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"parasempre_backend/internals/constants"
)

const (
	SizeThreshold = 200 * 1024
	MaxDimension  = 1920
	JPEGQuality   = 80
	OutputType    = constants.MimeJPEG

	maxParallel = 4
)

type File struct {
	Name        string
	ContentType string
	Data        []byte
}

var eligible = map[string]bool{
	constants.MimeJPEG: true,
	constants.MimePNG:  true,
	constants.MimeWEBP: true,
	constants.MimeGIF:  true,
}

// Optimize runs OptimizeOne over files in parallel. out[i] corresponds to files[i].
func Optimize(ctx context.Context, files []File) []File {
	out := make([]File, len(files))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i := range files {
		i := i
		g.Go(func() error {
			out[i] = OptimizeOne(files[i])
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// OptimizeOne re-encodes an eligible image of at least SizeThreshold bytes
// as a JPEG fitting MaxDimension. The original is returned untouched when the
// file is small, not an image, fails to decode/encode, or the result is larger.
func OptimizeOne(f File) File {
	ct := strings.ToLower(strings.TrimSpace(f.ContentType))
	if !eligible[ct] || len(f.Data) < SizeThreshold {
		return f
	}
	data, err := reencode(f.Data, ct)
	if err != nil || len(data) > len(f.Data) {
		return f
	}
	return File{
		Name:        jpegName(f.Name),
		ContentType: OutputType,
		Data:        data,
	}
}

func reencode(raw []byte, contentType string) ([]byte, error) {
	src, err := decode(raw, contentType)
	if err != nil {
		return nil, err
	}
	flat := fitOnWhite(src, MaxDimension, MaxDimension)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(raw []byte, contentType string) (image.Image, error) {
	if contentType == constants.MimeWEBP {
		img, err := webp.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decode webp: %w", err)
		}
		return img, nil
	}
	// honours the EXIF orientation of phone photos
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", contentType, err)
	}
	return img, nil
}

// fitOnWhite scales src down (keeping aspect) to fit maxW×maxH and
// composites it over an opaque white canvas.
func fitOnWhite(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	nw, nh := w, h
	if w > maxW || h > maxH {
		scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
		nw = int(math.Round(float64(w) * scale))
		nh = int(math.Round(float64(h) * scale))
		if nw < 1 {
			nw = 1
		}
		if nh < 1 {
			nh = 1
		}
		if nw > maxW {
			nw = maxW
		}
		if nh > maxH {
			nh = maxH
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	if nw == w && nh == h {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	}
	return dst
}

func jpegName(name string) string {
	if name == "" {
		return "photo.jpg"
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
}
