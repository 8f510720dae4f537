// Package assets manages the media files the kiosk can play.
package assets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Kind classifies an asset by how the display should present it.
type Kind string

const (
	KindVideo Kind = "video"
	KindImage Kind = "image"
	KindOther Kind = "other"
)

var videoExtensions = map[string]struct{}{
	".mp4": {}, ".avi": {}, ".mov": {}, ".mkv": {},
	".wmv": {}, ".flv": {}, ".m4v": {}, ".webm": {},
}

var imageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {},
	".bmp": {}, ".webp": {}, ".svg": {},
}

// Classify returns the asset kind for a filename.
func Classify(name string) Kind {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := videoExtensions[ext]; ok {
		return KindVideo
	}
	if _, ok := imageExtensions[ext]; ok {
		return KindImage
	}
	return KindOther
}

// Info describes one file in the library.
type Info struct {
	Name     string
	Kind     Kind
	Size     int64
	Modified time.Time
}

// Library is a flat directory of media files. Names are always bare
// filenames; anything path-like is rejected before touching the disk.
type Library struct {
	dir string
}

// NewLibrary returns a library rooted at dir, creating it if needed.
func NewLibrary(dir string) (*Library, error) {
	if dir == "" {
		return nil, errors.New("assets directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create assets directory: %w", err)
	}
	return &Library{dir: dir}, nil
}

// Dir returns the library root.
func (l *Library) Dir() string {
	return l.dir
}

// List returns every file in the library sorted by name.
func (l *Library) List() ([]Info, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read assets directory: %w", err)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		stat, statErr := entry.Info()
		if statErr != nil {
			continue
		}
		infos = append(infos, Info{
			Name:     entry.Name(),
			Kind:     Classify(entry.Name()),
			Size:     stat.Size(),
			Modified: stat.ModTime(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Path returns the on-disk path for name after validating it.
func (l *Library) Path(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	return filepath.Join(l.dir, name), nil
}

// Exists reports whether name is present in the library.
func (l *Library) Exists(name string) bool {
	path, err := l.Path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Save streams r into the library under name, replacing any existing
// file of that name.
func (l *Library) Save(name string, r io.Reader) error {
	path, err := l.Path(name)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(l.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write asset %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close asset %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("store asset %s: %w", name, err)
	}
	return nil
}

// ErrExists is returned by Rename when the target name is taken.
var ErrExists = errors.New("asset already exists")

// ErrNotFound is returned when a named asset is not in the library.
var ErrNotFound = errors.New("asset not found")

// Rename moves oldName to newName. It refuses to overwrite.
func (l *Library) Rename(oldName, newName string) error {
	oldPath, err := l.Path(oldName)
	if err != nil {
		return err
	}
	newPath, err := l.Path(newName)
	if err != nil {
		return err
	}
	if !l.Exists(oldName) {
		return fmt.Errorf("%w: %s", ErrNotFound, oldName)
	}
	if l.Exists(newName) {
		return fmt.Errorf("%w: %s", ErrExists, newName)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("rename asset: %w", err)
	}
	return nil
}

// Delete removes name from the library.
func (l *Library) Delete(name string) error {
	path, err := l.Path(name)
	if err != nil {
		return err
	}
	if !l.Exists(name) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return errors.New("asset name is required")
	}
	if strings.ContainsAny(name, "/\\") || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid asset name %q", name)
	}
	return nil
}
