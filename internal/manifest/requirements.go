package manifest

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// packageNameRE matches the distribution name at the start of a requirement
// specifier, before any version constraint, extras or environment marker.
var packageNameRE = regexp.MustCompile(`^([a-zA-Z0-9][-a-zA-Z0-9._]*)`)

// Packages reads a pip requirements file and returns the distinct package
// names it lists, in file order. Comments, blank lines, pip option lines and
// URL requirements are skipped. The manifest itself stays an opaque input for
// pip; this listing exists only so callers can report what a provisioning run
// is about to install and verify afterwards.
func Packages(path string) ([]string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	var (
		seen   = make(map[string]bool)
		result []string
	)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == '-' {
			continue
		}

		if strings.Contains(line, "://") || strings.HasPrefix(line, "git+") {
			continue
		}

		m := packageNameRE.FindStringSubmatch(line)
		if len(m) < 2 {
			continue
		}

		name := Normalize(m[1])
		if !seen[name] {
			seen[name] = true

			result = append(result, name)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan manifest: %w", err)
	}

	return result, nil
}

// Normalize lowercases a distribution name and collapses the separators
// pip treats as equivalent (PEP 503).
func Normalize(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "-")
	name = strings.ReplaceAll(name, ".", "-")

	return name
}
