// Package imagestore maps the web-relative image references stored on items
// to real files on disk. Item photos live under a system image root (a
// network share in production); legacy uploads live under the application
// base directory.
package imagestore

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrRemotePath marks references that are absolute URLs or data URIs and
// therefore cannot be resolved to a local file.
var ErrRemotePath = errors.New("imagestore: remote or data reference, not a local file")

// ErrPathEscapes marks references that would escape the configured root.
var ErrPathEscapes = errors.New("imagestore: path escapes image root")

const systemPrefix = "/files/system/"

// Resolver resolves stored image references to absolute filesystem paths.
type Resolver interface {
	// Resolve maps a stored web path to an absolute filesystem path.
	// Returns ErrRemotePath for http(s)/data references and ErrPathEscapes
	// for traversal attempts.
	Resolve(ref string) (string, error)
	// Exists reports whether the reference resolves to a readable file.
	Exists(ref string) bool
}

// FSResolver resolves against a system image root plus the application base
// directory for legacy /static/... paths.
type FSResolver struct {
	systemRoot string
	baseDir    string
}

// NewFSResolver creates a resolver rooted at systemRoot, with baseDir as the
// fallback for non-system paths.
func NewFSResolver(systemRoot, baseDir string) *FSResolver {
	return &FSResolver{systemRoot: systemRoot, baseDir: baseDir}
}

// Resolve implements Resolver.
func (r *FSResolver) Resolve(ref string) (string, error) {
	s := strings.TrimSpace(ref)
	if s == "" {
		return "", os.ErrNotExist
	}

	// Drop query/fragment, e.g. cache-busting "?v=..." suffixes.
	if u, err := url.Parse(s); err == nil && u.Path != "" {
		if u.Scheme == "http" || u.Scheme == "https" || u.Scheme == "data" {
			return "", ErrRemotePath
		}
		s = u.Path
	}
	if strings.HasPrefix(s, "data:") {
		return "", ErrRemotePath
	}

	s = strings.ReplaceAll(s, "\\", "/")

	if rest, ok := cutSystemPrefix(s); ok {
		return r.safeJoinSystemRoot(rest)
	}

	// Legacy: /static/uploads/... and friends live under the base dir.
	rel := filepath.FromSlash(strings.TrimLeft(s, "/"))
	return filepath.Join(r.baseDir, rel), nil
}

// Exists implements Resolver.
func (r *FSResolver) Exists(ref string) bool {
	fs, err := r.Resolve(ref)
	if err != nil {
		return false
	}
	info, err := os.Stat(fs)
	return err == nil && !info.IsDir()
}

func cutSystemPrefix(s string) (string, bool) {
	if i := strings.Index(s, systemPrefix); i >= 0 {
		return s[i+len(systemPrefix):], true
	}
	trimmed := strings.TrimPrefix(systemPrefix, "/")
	if strings.HasPrefix(s, trimmed) {
		return s[len(trimmed):], true
	}
	return "", false
}

// safeJoinSystemRoot joins a web sub-path onto the system root, dropping
// empty, "." and ".." segments, then verifies the result stays inside the
// root.
func (r *FSResolver) safeJoinSystemRoot(sub string) (string, error) {
	sub = strings.TrimLeft(strings.ReplaceAll(sub, "\\", "/"), "/")
	parts := make([]string, 0, 8)
	for _, p := range strings.Split(sub, "/") {
		if p == "" || p == "." || p == ".." {
			continue
		}
		parts = append(parts, p)
	}
	full := filepath.Join(append([]string{r.systemRoot}, parts...)...)

	rootAbs, err := filepath.Abs(r.systemRoot)
	if err != nil {
		return "", err
	}
	fullAbs, err := filepath.Abs(full)
	if err != nil {
		return "", err
	}
	if fullAbs != rootAbs && !strings.HasPrefix(fullAbs, rootAbs+string(filepath.Separator)) {
		return "", ErrPathEscapes
	}
	return full, nil
}

var _ Resolver = (*FSResolver)(nil)
