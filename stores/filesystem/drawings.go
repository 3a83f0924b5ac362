// Package filesystem implements core.DrawingStore with one JSON file per
// drawing under a configured base directory.
package filesystem

import (
	"bytes"
	"context"
	"encoding/json"
	"excalidraw-share/core"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const drawingExt = ".json"

type fsStore struct {
	basePath string
}

// NewStore creates a filesystem-backed drawing store rooted at basePath,
// creating the directory tree if needed.
func NewStore(basePath string) (*fsStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create base directory %q: %w", basePath, err)
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve base directory %q: %w", basePath, err)
	}
	return &fsStore{basePath: abs}, nil
}

// sanitizeID strips every rune outside [A-Za-z0-9_-] so the id is safe as
// a single path component. Distinct raw ids can collapse to the same file;
// callers that care must supply ids that are already clean.
func sanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '-', r == '_':
			return r
		}
		return -1
	}, id)
}

func (s *fsStore) drawingPath(id string) string {
	return filepath.Join(s.basePath, sanitizeID(id)+drawingExt)
}

func (s *fsStore) Save(ctx context.Context, id string, doc core.Document) (core.DrawingMeta, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, doc); err != nil {
		return core.DrawingMeta{}, fmt.Errorf("%w: %v", core.ErrSerialization, err)
	}
	data := buf.Bytes()

	path := s.drawingPath(id)
	tmp, err := os.CreateTemp(s.basePath, ".upload-*.tmp")
	if err != nil {
		return core.DrawingMeta{}, fmt.Errorf("%w: create temp file: %v", core.ErrStorage, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return core.DrawingMeta{}, fmt.Errorf("%w: write %s: %v", core.ErrStorage, path, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return core.DrawingMeta{}, fmt.Errorf("%w: chmod %s: %v", core.ErrStorage, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return core.DrawingMeta{}, fmt.Errorf("%w: flush %s: %v", core.ErrStorage, tmpName, err)
	}
	// Rename within the same directory, so readers see either the old file
	// or the new one, never a partial write.
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return core.DrawingMeta{}, fmt.Errorf("%w: rename to %s: %v", core.ErrStorage, path, err)
	}

	return core.DrawingMeta{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		SizeBytes: int64(len(data)),
	}, nil
}

func (s *fsStore) Load(ctx context.Context, id string) (core.Document, error) {
	path := s.drawingPath(id)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: stat %s: %v", core.ErrStorage, path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		// Deleted between the existence check and the read.
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: read %s: %v", core.ErrStorage, path, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: stored drawing %s is not valid JSON", core.ErrSerialization, id)
	}
	return core.Document(data), nil
}

func (s *fsStore) Delete(ctx context.Context, id string) error {
	path := s.drawingPath(id)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", core.ErrNotFound, id)
		}
		return fmt.Errorf("%w: stat %s: %v", core.ErrStorage, path, err)
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", core.ErrNotFound, id)
		}
		return fmt.Errorf("%w: remove %s: %v", core.ErrStorage, path, err)
	}
	return nil
}

func (s *fsStore) List(ctx context.Context) ([]core.DrawingMeta, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: read directory %s: %v", core.ErrStorage, s.basePath, err)
	}

	drawings := make([]core.DrawingMeta, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != drawingExt {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed between the scan and the stat.
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("%w: stat %s: %v", core.ErrStorage, entry.Name(), err)
		}
		drawings = append(drawings, core.DrawingMeta{
			// Recovers the sanitized id, which may differ from what the
			// caller originally supplied.
			ID:        strings.TrimSuffix(entry.Name(), drawingExt),
			CreatedAt: creationTime(info),
			SizeBytes: info.Size(),
		})
	}

	sort.Slice(drawings, func(i, j int) bool {
		return drawings[i].CreatedAt.After(drawings[j].CreatedAt)
	})
	return drawings, nil
}

func (s *fsStore) Exists(ctx context.Context, id string) (bool, error) {
	_, err := os.Stat(s.drawingPath(id))
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("%w: stat %s: %v", core.ErrStorage, s.drawingPath(id), err)
	}
}
