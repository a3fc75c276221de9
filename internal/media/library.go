// Package media keeps complaint photos in a dedicated on-device directory.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"citizenvoice/backend/internal/models"
)

const fileScheme = "file://"

// Library copies picked images into Dir and deletes the copies it owns.
type Library struct {
	Dir string
}

// NewLibrary creates dir if needed. The path is made absolute so ownership
// checks do not depend on the working directory.
func NewLibrary(dir string) (*Library, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory %s: %w", abs, err)
	}
	return &Library{Dir: abs}, nil
}

// FileName is the deterministic name for a complaint's image.
func FileName(complaintID, index int) string {
	return fmt.Sprintf("complaint_%d_%d.jpg", complaintID, index)
}

// Import copies src (a path or file:// URI) to the library and returns the
// reference of the copy.
func (l *Library) Import(ctx context.Context, complaintID, index int, src string) (models.ImageRef, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	in, err := os.Open(localPath(src))
	if err != nil {
		return "", err
	}
	defer in.Close()

	dst := filepath.Join(l.Dir, FileName(complaintID, index))
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return models.ImageRef(fileScheme + dst), nil
}

// Owns reports whether ref points at a file inside the library directory.
// Bundled assets and remote URLs are never owned.
func (l *Library) Owns(ref models.ImageRef) bool {
	s := string(ref)
	if ref.IsAsset() || s == "" || (strings.Contains(s, "://") && !strings.HasPrefix(s, fileScheme)) {
		return false
	}
	abs, err := filepath.Abs(localPath(s))
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(l.Dir, abs)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Remove deletes every owned file among refs. Missing files are ignored and
// refs outside the library are skipped.
func (l *Library) Remove(refs ...models.ImageRef) error {
	var errs []error
	for _, ref := range refs {
		if !l.Owns(ref) {
			continue
		}
		if err := os.Remove(localPath(string(ref))); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func localPath(ref string) string {
	return strings.TrimPrefix(ref, fileScheme)
}
