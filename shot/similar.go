package shot

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/corona10/goimagehash"
	"golang.org/x/sync/errgroup"
)

// SimilarPair is two screenshots whose perceptual hashes are close
type SimilarPair struct {
	A, B     string
	Distance int
}

// SimilarReport is the result of a similarity scan
type SimilarReport struct {
	Hashed  int
	Pairs   []SimilarPair
	Skipped []FileResult // files that could not be decoded
}

// PerceptualHash calculates the perceptual hash of an image file
func PerceptualHash(path string) (*goimagehash.ImageHash, error) {
	img, _, err := DecodeImage(path)
	if err != nil {
		return nil, err
	}

	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate perceptual hash: %w", err)
	}
	return hash, nil
}

// FindSimilar hashes the files in dir with up to workers goroutines and
// returns every pair within threshold (Hamming distance, 0-64), closest first
func FindSimilar(ctx context.Context, dir string, files []string, threshold, workers int) (*SimilarReport, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	hashes := make([]*goimagehash.ImageHash, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, name := range files {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Per-file failures are reported, not fatal
			hashes[i], errs[i] = PerceptualHash(filepath.Join(dir, name))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &SimilarReport{}
	type hashed struct {
		name string
		hash *goimagehash.ImageHash
	}
	var ok []hashed
	for i, name := range files {
		if errs[i] != nil {
			report.Skipped = append(report.Skipped, FileResult{Source: name, Err: errs[i], Line: failureLine(name, errs[i])})
			continue
		}
		ok = append(ok, hashed{name: name, hash: hashes[i]})
	}
	report.Hashed = len(ok)

	for i := 0; i < len(ok); i++ {
		for j := i + 1; j < len(ok); j++ {
			distance, err := ok[i].hash.Distance(ok[j].hash)
			if err != nil {
				continue
			}
			if distance <= threshold {
				report.Pairs = append(report.Pairs, SimilarPair{A: ok[i].name, B: ok[j].name, Distance: distance})
			}
		}
	}

	sort.SliceStable(report.Pairs, func(i, j int) bool {
		return report.Pairs[i].Distance < report.Pairs[j].Distance
	})
	return report, nil
}
