package studio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ruziwatakundanashe/reelgen/internal/reel"
)

// PrepareOutputDir checks the artifact directory, creating it when missing.
func PrepareOutputDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("output_dir is required")
	}

	for _, part := range strings.Split(filepath.ToSlash(dir), "/") {
		if part == ".." {
			return fmt.Errorf("output_dir cannot contain path traversal")
		}
	}

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create output_dir: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalid output_dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output_dir is not a directory")
	}
	return nil
}

// OutputPath is the fixed artifact path of a template; every run of the
// template overwrites it.
func OutputPath(dir string, mode reel.Mode) string {
	return filepath.Join(dir, reel.MustLookup(mode).OutputName)
}
