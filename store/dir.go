package store

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const (
	recordExt = ".rec"
	tmpPrefix = ".tmp-"
)

/*
Dir keeps one file per record inside a directory.

File names are the hex-encoded key plus ".rec", so any key is a safe file
name and Keys can recover the original key from the listing. Writes go to a
temp file that is renamed into place, so a crash mid-write leaves either the
old record or the new one, never a torn file.
*/
type Dir struct {
	path string
	mu   sync.Mutex
}

// NewDir opens (and creates if needed) a directory-backed store.
func NewDir(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, fmt.Errorf("store: create dir %s: %w", path, err)
	}
	return &Dir{path: path}, nil
}

// Path returns the directory the records live in.
func (d *Dir) Path() string { return d.path }

func (d *Dir) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	b, err := os.ReadFile(d.file(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("store: read %q: %w", key, err)
	}
	return string(b), true, nil
}

func (d *Dir) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	tmp, err := os.CreateTemp(d.path, tmpPrefix+"*")
	if err != nil {
		return fmt.Errorf("store: temp file for %q: %w", key, err)
	}
	name := tmp.Name()
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("store: write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("store: close %q: %w", key, err)
	}
	if err := os.Rename(name, d.file(key)); err != nil {
		os.Remove(name)
		return fmt.Errorf("store: rename %q: %w", key, err)
	}
	return nil
}

func (d *Dir) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.Remove(d.file(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("store: remove %q: %w", key, err)
	}
	return nil
}

// Keys lists every record key. Files that are not records are skipped.
func (d *Dir) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", d.path, err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, tmpPrefix) || !strings.HasSuffix(name, recordExt) {
			continue
		}
		raw, err := hex.DecodeString(strings.TrimSuffix(name, recordExt))
		if err != nil {
			continue
		}
		keys = append(keys, string(raw))
	}
	sort.Strings(keys)
	return keys, nil
}

func (d *Dir) file(key string) string {
	return filepath.Join(d.path, hex.EncodeToString([]byte(key))+recordExt)
}
