// file: internals/constants/detectFile.go

package constants

import (
	"path/filepath"
	"strings"
)

const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeWEBP = "image/webp"
	MimeGIF  = "image/gif"
)

// DetectImageTypeFromExt guesses the content type when the upload has none.
func DetectImageTypeFromExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".jpg", ".jpeg":
		return MimeJPEG
	case ".png":
		return MimePNG
	case ".webp":
		return MimeWEBP
	case ".gif":
		return MimeGIF
	default:
		return "application/octet-stream"
	}
}

func ImageExt(contentType string) string {
	switch strings.ToLower(contentType) {
	case MimeJPEG:
		return ".jpg"
	case MimePNG:
		return ".png"
	case MimeWEBP:
		return ".webp"
	case MimeGIF:
		return ".gif"
	default:
		return ""
	}
}
