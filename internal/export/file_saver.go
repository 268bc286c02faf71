// Package export provides the save-as targets a download can be handed to.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/GoSim-25-26J-441/soapgen/internal/submission"
)

var ErrInvalidName = errors.New("artifact name must be a plain file name")

// FileSaver writes artifacts into a directory.
type FileSaver struct {
	Dir string
}

func NewFileSaver(dir string) *FileSaver {
	if dir == "" {
		dir = "."
	}
	return &FileSaver{Dir: dir}
}

// Path is where an artifact with the given name ends up.
func (s *FileSaver) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Save writes through a temp file in Dir and renames it into place. The temp
// file is removed on every failure path.
func (s *FileSaver) Save(ctx context.Context, a submission.Artifact) (err error) {
	if a.Name == "" || strings.ContainsAny(a.Name, `/\`) || a.Name == "." || a.Name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, a.Name)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, "."+a.Name+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(a.Data); err != nil {
		return fmt.Errorf("write %s: %w", a.Name, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", a.Name, err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", a.Name, err)
	}
	if err = os.Rename(tmpName, s.Path(a.Name)); err != nil {
		return fmt.Errorf("rename %s: %w", a.Name, err)
	}
	return nil
}
