package measure

import (
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/andybalholm/brotli"
	"golang.org/x/sync/errgroup"
)

// Compress writes .gz and .br siblings next to every file in dir
// matching one of the patterns. Originals are never modified, so the
// step is purely additive and safe to repeat. Files are compressed
// concurrently — this is the only parallel phase of a run, since it
// touches no shared state.
func Compress(dir string, patterns []string) error {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if matchAny(patterns, filepath.ToSlash(rel)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("compress: scanning %s: %w", dir, err)
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for _, path := range files {
		path := path
		g.Go(func() error {
			if err := writeGzip(path); err != nil {
				return err
			}
			return writeBrotli(path)
		})
	}
	return g.Wait()
}

func writeGzip(path string) error {
	return writeCompressed(path, path+".gz", func(w io.Writer) (io.WriteCloser, error) {
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	})
}

func writeBrotli(path string) error {
	return writeCompressed(path, path+".br", func(w io.Writer) (io.WriteCloser, error) {
		return brotli.NewWriterLevel(w, brotli.BestCompression), nil
	})
}

func writeCompressed(src, dst string, wrap func(io.Writer) (io.WriteCloser, error)) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("compress: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("compress: %w", err)
	}
	defer out.Close()

	cw, err := wrap(out)
	if err != nil {
		return fmt.Errorf("compress %s: %w", src, err)
	}
	if _, err := io.Copy(cw, in); err != nil {
		return fmt.Errorf("compress %s: %w", src, err)
	}
	if err := cw.Close(); err != nil {
		return fmt.Errorf("compress %s: %w", src, err)
	}
	return out.Close()
}
