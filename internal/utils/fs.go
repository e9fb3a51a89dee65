package utils

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/h2non/filetype"
)

// SniffLen is how many leading bytes SniffBinary needs to recognise every
// format it knows about.
const SniffLen = 262

// FileExists simply checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates directory if it doesn't exist
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0755)
}

// SaveTOMLFile saves a struct to a TOML file
func SaveTOMLFile(data interface{}, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		log.Errorf("Failed to create file: %v", err)
		return err
	}
	defer file.Close()
	encoder := toml.NewEncoder(file)
	return encoder.Encode(data)
}

// GetAbsolutePath returns the absolute path of a file
func GetAbsolutePath(configPath string) string {
	if configPath == "" {
		return "unknown"
	}

	if !filepath.IsAbs(configPath) {
		if absPath, err := filepath.Abs(configPath); err == nil {
			return absPath
		}
	}
	return configPath
}

// SniffBinary reports whether header starts like a binary file: either a
// format filetype recognises or anything containing a NUL byte.
func SniffBinary(header []byte) (string, bool) {
	if len(header) == 0 {
		return "", false
	}
	if kind, err := filetype.Match(header); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value, true
	}
	if bytes.IndexByte(header, 0) >= 0 {
		return "binary data", true
	}
	return "", false
}

// WithExtension appends ext to path unless path already ends with it.
func WithExtension(path, ext string) string {
	if ext == "" || strings.HasSuffix(path, ext) {
		return path
	}
	return path + ext
}

// MoveNoClobber moves src to dst without ever replacing an existing file.
// Whenever the destination name is taken, suffix is inserted before the
// extension and the move is retried, so "out.txt" becomes "out+copy.txt",
// then "out+copy+copy.txt". The final path is returned.
func MoveNoClobber(src, dst, suffix string) (string, error) {
	if suffix == "" {
		return "", errors.New("move suffix must not be empty")
	}
	for {
		err := moveExclusive(src, dst)
		if err == nil {
			return dst, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", err
		}
		log.Debugf("Destination %s exists, retrying with suffix %q", dst, suffix)
		dst = withSuffix(dst, suffix)
	}
}

// moveExclusive fails with os.ErrExist if dst is present. A hard link is
// tried first because it cannot clobber; when linking is impossible (other
// device, unsupported filesystem) the file is copied into an O_EXCL target.
func moveExclusive(src, dst string) error {
	if FileExists(dst) {
		return os.ErrExist
	}
	if err := os.Link(src, dst); err == nil {
		return os.Remove(src)
	} else if errors.Is(err, os.ErrExist) {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("failed to close %s: %w", dst, err)
	}
	in.Close()
	return os.Remove(src)
}

func withSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return base + suffix + ext
}
