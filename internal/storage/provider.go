// Package storage defines the flat file-system abstraction used for the vault
// folders and the build output directories.
package storage

import "github.com/starford/sowilo/internal/models"

// Provider is the interface for directory-scoped file operations. All paths
// are relative to the provider root.
type Provider interface {
	// List returns the markdown (.md, .mdx) entries directly under dir.
	List(dir string) ([]models.FileMeta, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, replacing any existing file.
	Write(path string, content []byte) error
	// Exists reports whether a regular file exists at path.
	Exists(path string) bool
}

// Copy reads srcPath from src and writes it to dstPath in dst.
func Copy(src Provider, srcPath string, dst Provider, dstPath string) error {
	data, err := src.Read(srcPath)
	if err != nil {
		return err
	}
	return dst.Write(dstPath, data)
}
