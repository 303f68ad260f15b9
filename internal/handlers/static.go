package handlers

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"skinsense-backend/internal/logging"

	"go.uber.org/zap"
)

const (
	IndexPage = "index.html"
	AdminPage = "admin.html"
)

var errOutsideRoot = errors.New("path escapes static root")

// StaticHandler serves files from a single directory tree and refuses any
// path that resolves outside it.
type StaticHandler struct {
	root string
}

func NewStaticHandler(dir string) (*StaticHandler, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve static dir: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	return &StaticHandler{root: root}, nil
}

// --- GET / ---

func (h *StaticHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, IndexPage)
}

// --- GET /admin ---

func (h *StaticHandler) Admin(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, AdminPage)
}

// --- GET /* ---

// The name comes from the decoded path: chi matches on RawPath when it is
// set, so its wildcard can still hold escapes such as %2e%2e.
func (h *StaticHandler) File(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, strings.TrimPrefix(r.URL.Path, "/"))
}

func (h *StaticHandler) serve(w http.ResponseWriter, r *http.Request, name string) {
	ctx := r.Context()

	full, err := h.resolve(name)
	if err != nil {
		logging.FromContext(ctx).Warn(ctx, "static path rejected", zap.String("path", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	info, err := os.Stat(full)
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}

	// a symlink inside the root may still point outside it
	target, err := filepath.EvalSymlinks(full)
	if err != nil || !h.contains(target) {
		logging.FromContext(ctx).Warn(ctx, "static symlink rejected", zap.String("path", name))
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	f, err := os.Open(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	defer f.Close()

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// resolve canonicalizes name against the root. Any ambiguity is an error.
func (h *StaticHandler) resolve(name string) (string, error) {
	if strings.ContainsRune(name, 0) {
		return "", errOutsideRoot
	}
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || filepath.VolumeName(cleaned) != "" {
		return "", errOutsideRoot
	}

	full, err := filepath.Abs(filepath.Join(h.root, cleaned))
	if err != nil {
		return "", err
	}
	if !h.contains(full) {
		return "", errOutsideRoot
	}
	return full, nil
}

func (h *StaticHandler) contains(path string) bool {
	rel, err := filepath.Rel(h.root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
