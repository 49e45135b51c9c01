package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type FileInfo struct {
	Path  string
	Mtime int64
	Size  int64
}

// Collect resolves each path to transcript files: directories are walked,
// plain files are taken as given even without a matching extension.
func Collect(paths []string, exts []string) ([]FileInfo, error) {
	var files []FileInfo
	seen := make(map[string]struct{})
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		var found []FileInfo
		if info.IsDir() {
			found, err = ScanDir(p, exts)
			if err != nil {
				return nil, err
			}
		} else {
			found = []FileInfo{fileInfo(p, info)}
		}
		for _, f := range found {
			if _, ok := seen[f.Path]; ok {
				continue
			}
			seen[f.Path] = struct{}{}
			files = append(files, f)
		}
	}
	return files, nil
}

// ScanDir walks root for files whose extension is in exts, sorted by path.
func ScanDir(root string, exts []string) ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !hasExt(path, exts) {
			return nil
		}
		files = append(files, fileInfo(path, info))
		return nil
	})
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

func Paths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

func hasExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

func fileInfo(path string, info os.FileInfo) FileInfo {
	return FileInfo{
		Path:  path,
		Mtime: info.ModTime().Unix(),
		Size:  info.Size(),
	}
}
