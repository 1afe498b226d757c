// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// fileExt is appended to every escaped key on disk.
const fileExt = ".json"

// File stores each key as its own document inside a directory.
//
// Keys are path-escaped so comic ids containing separators cannot escape the
// directory. Writes go through a temporary file and a rename.
type File struct {
	mu  sync.RWMutex
	dir string
}

// NewFile creates dir if needed and returns a file backend rooted there.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create data dir %q: %w", dir, err)
	}
	return &File{dir: dir}, nil
}

// Get implements [Storage].
func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	raw, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage_file_read_failed: key=%s: %w", key, err)
	}
	return raw, nil
}

// Set implements [Storage].
func (f *File) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("storage_file_write_failed: key=%s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("storage_file_write_failed: key=%s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage_file_write_failed: key=%s: %w", key, err)
	}

	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		return fmt.Errorf("storage_file_rename_failed: key=%s: %w", key, err)
	}
	return nil
}

// Delete implements [Storage].
func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage_file_delete_failed: key=%s: %w", key, err)
	}
	return nil
}

// Keys implements [Storage].
func (f *File) Keys(_ context.Context, prefix string) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("storage_file_list_failed: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}

		key, err := url.PathUnescape(strings.TrimSuffix(name, fileExt))
		if err != nil {
			continue
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)
	return keys, nil
}

// Ping implements [Storage].
func (f *File) Ping(context.Context) error {
	info, err := os.Stat(f.dir)
	if err != nil {
		return fmt.Errorf("storage: data dir unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage: %q is not a directory", f.dir)
	}
	return nil
}

// Close implements [Storage].
func (f *File) Close() error { return nil }

// path maps a key to its document path.
func (f *File) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+fileExt)
}
