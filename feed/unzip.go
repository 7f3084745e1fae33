package feed

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Extracts all files of the archive at path into dir.
func Unzip(path string, dir string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("unzipping: %w", err)
	}
	defer r.Close()

	return extract(&r.Reader, dir)
}

// Extracts all files of an in-memory archive into dir.
func UnzipBytes(buf []byte, dir string) ([]string, error) {
	r, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, fmt.Errorf("unzipping: %w", err)
	}

	return extract(r, dir)
}

// Returns names of the extracted files.
func extract(r *zip.Reader, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	names := []string{}
	for _, f := range r.File {
		// There should not be any subdirectories. But, some
		// agencies don't care.
		if f.FileInfo().IsDir() {
			continue
		}
		path := strings.Split(f.Name, "/")
		fName := path[len(path)-1]
		if fName == "" || fName == "." || fName == ".." || strings.Contains(fName, "\\") {
			return nil, fmt.Errorf("invalid file name '%s'", f.Name)
		}

		if err := extractFile(f, filepath.Join(dir, fName)); err != nil {
			return nil, err
		}
		names = append(names, fName)
	}

	return names, nil
}

func extractFile(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", dest, err)
	}

	return out.Close()
}
