package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Disk writes files under a local root directory, served back by the
// application's own static file route.
type Disk struct {
	Root    string // filesystem root, e.g. "storage"
	BaseURL string // public prefix, e.g. "http://localhost:8080/storage"
}

func NewDisk(root, baseURL string) *Disk {
	return &Disk{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Save writes the file to <root>/<key>, creating directories as needed.
func (d *Disk) Save(_ context.Context, key, _ string, r io.Reader) (string, error) {
	path := filepath.Join(d.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return d.BaseURL + "/" + key, nil
}
