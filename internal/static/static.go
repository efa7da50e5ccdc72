// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package static implements a read-only HTTP handler serving files from a
// filesystem root.
package static

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"

	"go.astrophena.name/servedir/internal/logger"
	"go.astrophena.name/servedir/internal/web"
)

// Types returns the default content-type table: a mapping from file extension
// to the MIME type reported in the Content-Type header. The returned map is
// owned by the caller and can be freely modified before constructing a
// [Handler].
//
// .js and .mjs map to application/javascript so that JavaScript modules load
// in browsers.
func Types() map[string]string {
	return map[string]string{
		".css":   "text/css; charset=utf-8",
		".gif":   "image/gif",
		".htm":   "text/html; charset=utf-8",
		".html":  "text/html; charset=utf-8",
		".ico":   "image/x-icon",
		".jpeg":  "image/jpeg",
		".jpg":   "image/jpeg",
		".js":    "application/javascript",
		".json":  "application/json",
		".mjs":   "application/javascript",
		".mp3":   "audio/mpeg",
		".mp4":   "video/mp4",
		".ogg":   "audio/ogg",
		".pdf":   "application/pdf",
		".png":   "image/png",
		".svg":   "image/svg+xml",
		".txt":   "text/plain; charset=utf-8",
		".wasm":  "application/wasm",
		".wav":   "audio/wav",
		".webp":  "image/webp",
		".woff":  "font/woff",
		".woff2": "font/woff2",
		".xml":   "text/xml; charset=utf-8",
	}
}

// fallbackType is reported for files whose extension is not in the
// content-type table.
const fallbackType = "application/octet-stream"

// Handler is an [http.Handler] that serves files from fsys.
//
// Only GET and HEAD requests are allowed. Requests for a directory resolve
// index.html inside it. The content-type table is fixed at construction and
// never modified afterwards.
type Handler struct {
	fsys  fs.FS
	types map[string]string
	logf  logger.Logf
}

// NewHandler returns a new [Handler] serving files from fsys.
//
// If types is nil, [Types] is used. logf is used to log server errors; if
// nil, logs are discarded.
func NewHandler(fsys fs.FS, types map[string]string, logf logger.Logf) *Handler {
	if types == nil {
		types = Types()
	}
	if logf == nil {
		logf = func(format string, args ...any) {}
	}
	return &Handler{fsys: fsys, types: types, logf: logf}
}

// ServeHTTP implements the [http.Handler] interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		h.respondError(w, fmt.Errorf("%s: %w", r.Method, web.ErrMethodNotAllowed))
		return
	}

	// Reject paths trying to escape the root before touching the
	// filesystem. The fs.FS root can't be escaped anyway, but these
	// requests deserve a 400, not a 404.
	if containsDotDot(r.URL.Path) {
		h.respondError(w, fmt.Errorf("invalid path %q: %w", r.URL.Path, web.ErrBadRequest))
		return
	}

	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if name == "" {
		name = "."
	}

	fi, err := fs.Stat(h.fsys, name)
	if err != nil {
		h.respondError(w, fmt.Errorf("stat %q: %w", name, mapFSError(err)))
		return
	}
	if fi.IsDir() {
		name = path.Join(name, "index.html")
		fi, err = fs.Stat(h.fsys, name)
		if err != nil {
			h.respondError(w, fmt.Errorf("stat %q: %w", name, mapFSError(err)))
			return
		}
	}

	f, err := h.fsys.Open(name)
	if err != nil {
		h.respondError(w, fmt.Errorf("open %q: %w", name, mapFSError(err)))
		return
	}
	defer f.Close()

	ctype, ok := h.types[strings.ToLower(path.Ext(name))]
	if !ok {
		ctype = fallbackType
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Length", strconv.FormatInt(fi.Size(), 10))
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, f); err != nil {
		// Too late to change the status: the client likely went away.
		h.logf("static: sending %q: %v", name, err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	web.RespondError(h.logf, w, err)
}

// mapFSError converts filesystem errors to their HTTP counterparts, leaving
// other errors untouched.
func mapFSError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrInvalid):
		return web.ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return web.ErrForbidden
	}
	return err
}

// containsDotDot reports whether v contains a ".." path segment.
func containsDotDot(v string) bool {
	if !strings.Contains(v, "..") {
		return false
	}
	for _, ent := range strings.FieldsFunc(v, isSlashRune) {
		if ent == ".." {
			return true
		}
	}
	return false
}

func isSlashRune(r rune) bool { return r == '/' || r == '\\' }
