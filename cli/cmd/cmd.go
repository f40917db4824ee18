package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

// contextKey stores a [kong.Context] value in a [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given
// kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is one opened input document.
type source struct {
	// Name is the display path, "-" for stdin.
	Name string

	r     io.Reader
	close func() error
}

func (s *source) Read(p []byte) (int, error) { return s.r.Read(p) }

func (s *source) Close() error {
	if s.close == nil {
		return nil
	}

	return s.close()
}

// fileKey identifies a file by device and inode, which deduplicates
// sources across symlinks and path spellings.
type fileKey struct {
	dev uint64
	ino uint64
}

func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}

// openSources opens the given paths in order, deduplicating by device and
// inode. Each "-" (at most once) reads stdin. The caller closes every
// returned source.
func openSources(paths []string) ([]*source, error) {
	seen := make(map[fileKey]struct{})
	sources := make([]*source, 0, len(paths))

	var (
		stdinKey    fileKey
		hasStdinKey bool
	)

	if info, err := os.Stdin.Stat(); err == nil {
		stdinKey, hasStdinKey = makeFileKey(info)
	}

	for _, path := range paths {
		if path == stdinSource {
			if hasStdinKey {
				if _, dup := seen[stdinKey]; dup {
					continue
				}

				seen[stdinKey] = struct{}{}
			}

			sources = append(sources, &source{Name: stdinSource, r: os.Stdin})

			continue
		}

		src, ok, err := openUniqueFile(path, seen)
		if err != nil {
			for _, s := range sources {
				_ = s.Close()
			}

			return nil, err
		}

		if ok {
			sources = append(sources, src)
		}
	}

	return sources, nil
}

// openUniqueFile opens path unless its device/inode pair was already seen.
func openUniqueFile(path string, seen map[fileKey]struct{}) (*source, bool, error) {
	resolved := path

	if abs, err := filepath.Abs(path); err == nil {
		if target, err := filepath.EvalSymlinks(abs); err == nil {
			resolved = target
		}
	}

	if info, err := os.Stat(resolved); err == nil {
		if key, ok := makeFileKey(info); ok {
			if _, dup := seen[key]; dup {
				return nil, false, nil
			}

			seen[key] = struct{}{}
		}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false, ErrOpenSource.Wrap(err)
	}

	return &source{Name: path, r: file, close: file.Close}, true, nil
}
