// file: internals/features/pages/service/upload.go

package service

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"parasempre_backend/internals/constants"
	"parasempre_backend/internals/features/pages/imagepipe"
)

const maxParallelUploads = 4

type uploadJob struct {
	index int
	file  imagepipe.File
}

type uploadDone struct {
	job uploadJob
	url string
	err error
}

// uploadAll optimizes then uploads every job in parallel. A failed upload is
// reported in its slot and never cancels the others. done[i] matches jobs[i].
func (m *Manager) uploadAll(ctx context.Context, jobs []uploadJob, pathFor func(j uploadJob, ext string) string) []uploadDone {
	if len(jobs) == 0 {
		return nil
	}

	files := make([]imagepipe.File, len(jobs))
	for i, j := range jobs {
		files[i] = j.file
	}
	optimized := imagepipe.Optimize(ctx, files)

	done := make([]uploadDone, len(jobs))
	g := new(errgroup.Group)
	g.SetLimit(maxParallelUploads)
	for i := range jobs {
		i := i
		g.Go(func() error {
			f := optimized[i]
			done[i].job = jobs[i]
			if len(f.Data) == 0 {
				done[i].err = errors.New("empty file")
				return nil
			}
			ext := constants.ImageExt(f.ContentType)
			if ext == "" {
				done[i].err = errors.New("unsupported file type " + f.ContentType)
				return nil
			}
			url, err := m.Blobs.Upload(ctx, pathFor(jobs[i], ext), f.Data, f.ContentType)
			done[i].url, done[i].err = url, err
			return nil
		})
	}
	_ = g.Wait()
	return done
}
