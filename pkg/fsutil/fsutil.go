package fsutil

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Cross-platform file permission constants
const (
	// Windows ignores execute permissions, so we use different values
	DefaultFilePermsWindows = 0666
	DefaultDirPermsWindows  = 0777
	DefaultFilePermsUnix    = 0644
	DefaultDirPermsUnix     = 0755
)

// GetFileMode returns appropriate file permissions for the current platform
func GetFileMode() os.FileMode {
	if runtime.GOOS == "windows" {
		return DefaultFilePermsWindows
	}
	return DefaultFilePermsUnix
}

// GetDirMode returns appropriate directory permissions for the current platform
func GetDirMode() os.FileMode {
	if runtime.GOOS == "windows" {
		return DefaultDirPermsWindows
	}
	return DefaultDirPermsUnix
}

// MakeDirs creates directories with cross-platform permissions
func MakeDirs(path string) error {
	return os.MkdirAll(path, GetDirMode())
}

// WriteOutput writes data to path, creating parent directories as needed
func WriteOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := MakeDirs(dir); err != nil {
			return err
		}
	}
	return os.WriteFile(filepath.Clean(path), data, GetFileMode())
}

// ReadTxtFile reads a text file and returns its non-blank lines, trimmed.
// Lines starting with # are treated as comments.
func ReadTxtFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// HasExt reports whether path ends in one of exts, ignoring case
func HasExt(path string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
