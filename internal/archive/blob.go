// Package archive implements the repository archive cache: one canonical
// compressed snapshot per repository, plus a file index for cheap lookups.
package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Farahprojects/repoaudit/schema"
	"github.com/pierrec/lz4/v4"
)

// noiseDirs are stripped when a snapshot is ingested. Version control and
// dependency trees dominate tarball size without carrying audit signal.
var noiseDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	"vendor":       {},
	"dist":         {},
	"build":        {},
	".next":        {},
	"target":       {},
	"__pycache__":  {},
}

// maxFileBytes caps the size of a single archived file. Anything larger is
// generated or vendored content, not auditable source.
const maxFileBytes = 4 << 20

// compressSnapshot packs the file map into a tar stream and compresses it
// with LZ4. Paths are written in sorted order so identical content yields an
// identical blob hash.
func compressSnapshot(files map[string][]byte) ([]byte, error) {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	tw := tar.NewWriter(zw)

	for _, p := range paths {
		content := files[p]
		hdr := &tar.Header{
			Name: p,
			Mode: 0o644,
			Size: int64(len(content)),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return nil, fmt.Errorf("write tar header for %s: %w", p, err)
		}
		if _, err := tw.Write(content); err != nil {
			return nil, fmt.Errorf("write tar entry for %s: %w", p, err)
		}
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("close tar stream: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close lz4 stream: %w", err)
	}
	return buf.Bytes(), nil
}

// decompressSnapshot is the inverse of compressSnapshot. When wanted is nil,
// every entry is returned; otherwise only the requested paths are extracted,
// still in a single decompression pass.
func decompressSnapshot(blob []byte, wanted map[string]struct{}) (map[string][]byte, error) {
	zr := lz4.NewReader(bytes.NewReader(blob))
	tr := tar.NewReader(zr)

	files := make(map[string][]byte)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tar entry: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if wanted != nil {
			if _, ok := wanted[hdr.Name]; !ok {
				continue
			}
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("read tar content for %s: %w", hdr.Name, err)
		}
		files[hdr.Name] = content
		if wanted != nil && len(files) == len(wanted) {
			break
		}
	}
	return files, nil
}

// extractTarball unpacks a gzipped tarball as delivered by the source API.
// The provider prefixes every entry with a "<owner>-<repo>-<sha>/" directory,
// which is stripped; noise directories and oversized files are skipped.
func extractTarball(data []byte) (map[string][]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	files := make(map[string][]byte)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read snapshot entry: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		path := stripSnapshotPrefix(hdr.Name)
		if path == "" || isNoisePath(path) {
			continue
		}
		if hdr.Size > maxFileBytes {
			continue
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("read snapshot content for %s: %w", path, err)
		}
		files[path] = content
	}
	return files, nil
}

// stripSnapshotPrefix removes the tarball's single top-level directory.
func stripSnapshotPrefix(name string) string {
	name = strings.TrimPrefix(name, "./")
	idx := strings.IndexByte(name, '/')
	if idx < 0 {
		return ""
	}
	return name[idx+1:]
}

// isNoisePath reports whether any path segment is a noise directory.
func isNoisePath(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if _, ok := noiseDirs[seg]; ok {
			return true
		}
	}
	return false
}

// buildIndex computes the per-file index of a snapshot.
func buildIndex(files map[string][]byte) map[string]schema.FileIndexEntry {
	index := make(map[string]schema.FileIndexEntry, len(files))
	for path, content := range files {
		index[path] = schema.FileIndexEntry{
			Size: int64(len(content)),
			Hash: hashContent(content),
			Type: schema.ClassifyPath(path),
		}
	}
	return index
}

// hashContent returns the sha256 hex digest of content.
func hashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// gitBlobSHA returns the git blob object hash of content. Comparable with the
// hashes in a source tree listing, which makes incremental sync possible
// without downloading unchanged files.
func gitBlobSHA(content []byte) string {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d\x00", len(content))
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}
