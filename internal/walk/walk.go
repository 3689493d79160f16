// Package walk yields the regular files under a root path, one at a time.
package walk

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Files visits every regular file under root sequentially.
//
// A file root yields exactly that path. A directory root yields its immediate
// child files; subdirectories are descended into only when recursive is set.
// A missing or unstattable root is fatal. A subdirectory that cannot be read
// is reported and skipped; the rest of the walk continues.
func Files(root string, recursive bool, visit func(path string) error) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}
	if !info.IsDir() {
		if !info.Mode().IsRegular() {
			log.Debug().Str("path", root).Msg("skipping non-regular file")
			return nil
		}
		return visit(root)
	}
	return dir(root, recursive, visit)
}

func dir(path string, recursive bool, visit func(string) error) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		log.Error().Err(err).Str("dir", path).Msg("skipping unreadable directory")
		return nil
	}
	for _, entry := range entries {
		child := filepath.Join(path, entry.Name())
		if entry.IsDir() {
			if !recursive {
				log.Debug().Str("dir", child).Msg("skipping subdirectory (recursive disabled)")
				continue
			}
			if err := dir(child, recursive, visit); err != nil {
				return err
			}
			continue
		}
		if !entry.Type().IsRegular() {
			log.Debug().Str("path", child).Msg("skipping non-regular file")
			continue
		}
		if err := visit(child); err != nil {
			return err
		}
	}
	return nil
}
