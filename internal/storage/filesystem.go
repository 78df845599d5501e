package storage

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// filesystemStorage stores each object as a plain file below root.
type filesystemStorage struct {
	root string
}

// NewFilesystem returns a Storage rooted at dir (relative paths resolve against the working directory).
// The directory itself is created lazily on first write.
func NewFilesystem(dir string) Storage {
	return &filesystemStorage{root: dir}
}

func (f *filesystemStorage) path(key string) string {
	return filepath.Join(f.root, filepath.FromSlash(key))
}

// Put writes the full content to the target file, creating missing parent directories.
func (f *filesystemStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	p := f.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return ObjectInfo{}, errors.Wrapf(err, "create parent directory for %s", key)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return ObjectInfo{}, errors.Wrapf(err, "read content for %s", key)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return ObjectInfo{}, errors.Wrapf(err, "write %s", key)
	}

	st, err := os.Stat(p)
	if err != nil {
		return ObjectInfo{}, errors.Wrapf(err, "stat %s", key)
	}
	return ObjectInfo{
		Key:          key,
		Size:         st.Size(),
		ContentType:  opt.ContentType,
		LastModified: st.ModTime(),
		Metadata:     opt.Metadata,
	}, nil
}

// Get opens the file for reading. A missing file maps to ErrNotFound; any other failure is wrapped.
func (f *filesystemStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, ObjectInfo{}, err
	}
	file, err := os.Open(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ObjectInfo{}, ErrNotFound
		}
		return nil, ObjectInfo{}, errors.Wrapf(err, "open %s", key)
	}
	st, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, ObjectInfo{}, errors.Wrapf(err, "stat %s", key)
	}
	if st.IsDir() {
		file.Close()
		return nil, ObjectInfo{}, errors.Errorf("%s is a directory", key)
	}
	return file, ObjectInfo{
		Key:          key,
		Size:         st.Size(),
		LastModified: st.ModTime(),
	}, nil
}

// Delete removes the file. A missing file maps to ErrNotFound.
func (f *filesystemStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(f.path(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return errors.Wrapf(err, "remove %s", key)
	}
	return nil
}
