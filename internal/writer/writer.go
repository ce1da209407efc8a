package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Render writes the domain list to w, one domain per line.
func Render(w io.Writer, domains []string) error {
	if len(domains) == 0 {
		return nil
	}
	_, err := io.WriteString(w, strings.Join(domains, "\n")+"\n")
	return err
}

// WriteFile writes the domain list to a plain-text file, creating parent
// directories as needed.
func WriteFile(path string, domains []string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(strings.Join(domains, "\n")+"\n"), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
