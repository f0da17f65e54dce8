package lint

import (
	"fmt"
	"io"
	"os"
)

// ReadConfigFile reads the CI configuration at path as text. A directory
// is reported as unreadable.
func ReadConfigFile(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the user or their project settings
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
