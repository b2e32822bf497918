// Package archive implements the engine's zip-based mod archive tooling
// (§6 "Command line": -compress/-uncompress). Grounded on
// original_source/libs/basic/source/archive.cpp's compress_directory/
// uncompress_archive (archive_ext ".zip", archive named after the
// directory/stem it sits beside), reimplemented on the stdlib's
// archive/zip rather than the original's zlib/minizip binding — no
// third-party zip library appears anywhere in the retrieval pack, and
// data.Graph already reads archives through archive/zip's zip.Reader.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Ext is the default extension used for archives created by
// CompressDirectory.
const Ext = ".zip"

// CompressDirectory zips dir's contents into a sibling archive named
// after the directory (dir without its trailing separator, plus Ext),
// and returns the archive's path.
func CompressDirectory(dir string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("archive: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("archive: %q is not a directory", dir)
	}

	clean := filepath.Clean(dir)
	base := filepath.Base(clean)
	if base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("archive: refusing to compress %q", dir)
	}
	target := filepath.Join(filepath.Dir(clean), base+Ext)

	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("archive: creating %q: %w", target, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	defer zw.Close()

	err = filepath.WalkDir(clean, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(clean, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("archive: compressing %q: %w", dir, err)
	}
	return target, nil
}

// UncompressArchive extracts archive into a sibling directory named
// after the archive's stem, and returns that directory's path.
func UncompressArchive(archivePath string) (string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("archive: opening %q: %w", archivePath, err)
	}
	defer zr.Close()

	stem := strings.TrimSuffix(filepath.Base(archivePath), filepath.Ext(archivePath))
	root := filepath.Join(filepath.Dir(archivePath), stem)

	for _, f := range zr.File {
		dest := filepath.Join(root, filepath.FromSlash(f.Name))
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return "", fmt.Errorf("archive: %w", err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return "", fmt.Errorf("archive: %w", err)
		}
		if err := extractOne(f, dest); err != nil {
			return "", fmt.Errorf("archive: extracting %q: %w", f.Name, err)
		}
	}
	return root, nil
}

func extractOne(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}
