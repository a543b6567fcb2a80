// file: internals/helpers/oss/multipartx.go

package helper

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"

	"parasempre_backend/internals/constants"
)

// ==============================
// File collector
// ==============================

type CollectOptions struct {
	// Preferred multipart field names, in order (empty = defaults)
	FileFieldCandidates []string
}

var defaultFileFieldCandidates = []string{
	"photos[]", "photos",
	"images[]", "images",
	"files[]", "files", "file",
}

// CollectUploadFiles gathers every *FileHeader of the form: candidate
// fields first in the given order, then any other field by name.
func CollectUploadFiles(form *multipart.Form, opt *CollectOptions) (out []*multipart.FileHeader, usedKeys []string) {
	if form == nil || form.File == nil {
		return nil, nil
	}
	candidates := defaultFileFieldCandidates
	if opt != nil && len(opt.FileFieldCandidates) > 0 {
		candidates = opt.FileFieldCandidates
	}

	seen := map[string]bool{}
	for _, key := range candidates {
		if fhs, ok := form.File[key]; ok && len(fhs) > 0 {
			usedKeys = append(usedKeys, key)
			for _, fh := range fhs {
				if fh != nil && fh.Filename != "" {
					out = append(out, fh)
				}
			}
			seen[key] = true
		}
	}
	rest := make([]string, 0, len(form.File))
	for key := range form.File {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		fhs := form.File[key]
		if len(fhs) == 0 {
			continue
		}
		hasFile := false
		for _, fh := range fhs {
			if fh != nil && fh.Filename != "" {
				out = append(out, fh)
				hasFile = true
			}
		}
		if hasFile {
			usedKeys = append(usedKeys, key)
		}
	}
	return out, usedKeys
}

// ReadFormFile loads an upload into memory, refusing files over maxBytes,
// and reports its content type: the header value when it is an image type,
// otherwise a 512-byte sniff, otherwise the extension.
func ReadFormFile(fh *multipart.FileHeader, maxBytes int64) ([]byte, string, error) {
	if fh == nil {
		return nil, "", fmt.Errorf("nil file header")
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, "", fmt.Errorf("file %q too large (max %d bytes)", fh.Filename, maxBytes)
	}
	src, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	return data, detectContentType(data, fh.Header.Get("Content-Type"), fh.Filename), nil
}

func detectContentType(data []byte, declared, filename string) string {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if strings.HasPrefix(declared, "image/") {
		return declared
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	if len(head) > 0 {
		if sniffed := http.DetectContentType(head); strings.HasPrefix(sniffed, "image/") {
			return sniffed
		}
	}
	return constants.DetectImageTypeFromExt(filename)
}
