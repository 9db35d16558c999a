package texture

import (
	"os"
	"path/filepath"
	"strings"
)

// extPriority ranks formats for the same stem; formats that can carry
// alpha win.
var extPriority = map[string]int{".tga": 4, ".png": 3, ".bmp": 2, ".jpg": 1, ".jpeg": 1}

// Index maps lowercase texture stems to filesystem paths.
type Index struct {
	entries map[string]string // stem.lower() → full path
}

// BuildIndex walks dir recursively for decodable images. A missing dir
// yields an empty index.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}
	if dir == "" {
		return idx
	}

	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || !Supported(path) {
			return nil
		}
		idx.Add(path)
		return nil
	})
	return idx
}

// Add registers path under its stem unless a higher priority format is
// already indexed for it.
func (idx *Index) Add(path string) {
	ext := strings.ToLower(filepath.Ext(path))
	stem := stemOf(path)
	existing, exists := idx.entries[stem]
	if !exists || extPriority[ext] > extPriority[strings.ToLower(filepath.Ext(existing))] {
		idx.entries[stem] = path
	}
}

// ResolvePath returns the filesystem path for a texture name, or ("", false).
func (idx *Index) ResolvePath(texName string) (string, bool) {
	if idx == nil {
		return "", false
	}
	path, ok := idx.entries[stemOf(texName)]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}

// stemOf strips directories and extension: "images\\Castle.TGA" → "castle".
func stemOf(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}
