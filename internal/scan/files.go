// Package scan lists image files in the watched directory and tracks which ones
// have already been handed to the gallery.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
)

// ErrDirectoryUnavailable is returned when the directory is missing, unreadable or not a directory.
var ErrDirectoryUnavailable = errors.New("directory unavailable")

// DefaultExtensions is the extension filter used when none is configured.
var DefaultExtensions = []string{".png"}

// FileItem represents an image file found by a scan.
type FileItem struct {
	Path string
	Info os.FileInfo
}

// FileItems is a slice of FileItem
type FileItems []FileItem

// NewFileItem creates a new FileItem
func NewFileItem(p string, info os.FileInfo) FileItem {
	return FileItem{
		Path: p,
		Info: info,
	}
}

// Paths returns the path of every item, in order.
func (items FileItems) Paths() []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Path
	}
	return out
}

// Options controls what a scan picks up.
type Options struct {
	Extensions []string // matched case-insensitively, with the leading dot
	Recursive  bool
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions
	}
	return o.Extensions
}

// List returns the non-empty image files in dir, oldest modification first.
func List(dir string, opts Options) (FileItems, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: no directory given", ErrDirectoryUnavailable)
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDirectoryUnavailable, dir, err)
	}
	st, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirectoryUnavailable, root)
	}

	var (
		mu    sync.Mutex
		items FileItems
	)
	exts := opts.extensions()
	conf := fastwalk.DefaultConfig
	err = fastwalk.Walk(&conf, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			if p != root && !opts.Recursive {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !IsImage(p, exts) {
			return nil
		}
		info, err := d.Info()
		if err != nil || info.Size() == 0 {
			return nil
		}
		// fastwalk calls back from several goroutines.
		mu.Lock()
		items = append(items, NewFileItem(p, info))
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	sort.Slice(items, func(i, j int) bool {
		ti, tj := items[i].Info.ModTime(), items[j].Info.ModTime()
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return items[i].Path < items[j].Path
	})
	return items, nil
}

// IsImage reports whether the file name carries one of the given extensions.
func IsImage(name string, exts []string) bool {
	ext := filepath.Ext(name)
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
