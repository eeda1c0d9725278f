package extract

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/artem13815/assignment-helper/pkg/storage/scratch"
)

var (
	ErrNoCSV       = errors.New("no csv member in archive")
	ErrUnsupported = errors.New("unsupported file type")
)

// Messages shown in place of file content when extraction fails.
const (
	NoCSVFound      = "No CSV file found in the ZIP archive."
	UnsupportedType = "Unsupported file type: only .csv and .zip files are processed."
)

// Located is the CSV picked for an upload. Release removes anything extraction created.
type Located struct {
	CSVPath string
	release func()
}

func (l Located) Release() {
	if l.release != nil {
		l.release()
	}
}

type Extractor struct {
	scratch *scratch.Dir
}

func New(dir *scratch.Dir) *Extractor {
	return &Extractor{scratch: dir}
}

// Locate resolves the CSV to read for an upload stored at path.
func (e *Extractor) Locate(ctx context.Context, kind Kind, path string) (Located, error) {
	switch kind {
	case KindCSV:
		return Located{CSVPath: path}, nil
	case KindZIP:
		return e.unzip(ctx, path)
	case KindUnsupported:
		return Located{}, ErrUnsupported
	default:
		return Located{}, fmt.Errorf("%w: kind %d", ErrUnsupported, int(kind))
	}
}

// Diagnostic renders a Locate error as file content.
func Diagnostic(err error) string {
	switch {
	case errors.Is(err, ErrNoCSV):
		return NoCSVFound
	case errors.Is(err, ErrUnsupported):
		return UnsupportedType
	default:
		return fmt.Sprintf("Error extracting ZIP file: %v", err)
	}
}

// unzip extracts every member into a fresh directory and picks a CSV member:
// the shallowest one wins, ties go to the lexicographically first path.
func (e *Extractor) unzip(ctx context.Context, path string) (Located, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		// zip.ErrInsecurePath comes back with an open reader
		if zr != nil {
			zr.Close()
		}
		return Located{}, err
	}
	defer zr.Close()

	dir, err := e.scratch.MkdirTemp("unzip")
	if err != nil {
		return Located{}, err
	}
	cleanup := func() { _ = e.scratch.Remove(dir) }

	var csvs []string
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			cleanup()
			return Located{}, err
		}
		dst, err := memberPath(dir, f.Name)
		if err != nil {
			cleanup()
			return Located{}, err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dst, 0o755); err != nil {
				cleanup()
				return Located{}, err
			}
			continue
		}
		if err := e.writeMember(f, dst); err != nil {
			cleanup()
			return Located{}, fmt.Errorf("%s: %w", f.Name, err)
		}
		if isCandidate(f.Name) {
			csvs = append(csvs, f.Name)
		}
	}
	if len(csvs) == 0 {
		cleanup()
		return Located{}, ErrNoCSV
	}
	sort.Slice(csvs, func(i, j int) bool {
		di, dj := strings.Count(csvs[i], "/"), strings.Count(csvs[j], "/")
		if di != dj {
			return di < dj
		}
		return csvs[i] < csvs[j]
	})
	first, _ := memberPath(dir, csvs[0])
	return Located{CSVPath: first, release: cleanup}, nil
}

func (e *Extractor) writeMember(f *zip.File, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if err := scratch.CopyAtMost(out, rc, e.scratch.MaxBytes()); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// isCandidate reports whether an archive member may be read as the CSV.
// macOS metadata (__MACOSX/, ._ resource forks) and hidden entries are skipped.
func isCandidate(name string) bool {
	if !strings.HasSuffix(strings.ToLower(name), ".csv") {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == "__MACOSX" || (strings.HasPrefix(part, ".") && part != ".") {
			return false
		}
	}
	return true
}

// memberPath maps an archive name into dir, refusing names that escape it.
func memberPath(dir, name string) (string, error) {
	dst := filepath.Join(dir, filepath.FromSlash(name))
	rel, err := filepath.Rel(dir, dst)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(name) {
		return "", fmt.Errorf("illegal file path in archive: %s", name)
	}
	return dst, nil
}
