// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"go.astrophena.name/servedir/internal/cli"
	"go.astrophena.name/servedir/internal/logger"
	"go.astrophena.name/servedir/internal/static"
	"go.astrophena.name/servedir/internal/web"

	"github.com/pkg/browser"
)

const port = 8000

func main() { cli.Main(new(engine)) }

type engine struct {
	logf logger.Logf

	// configuration, set before Run or defaulted there
	fs fs.FS

	// used in tests
	addr          string
	openURL       func(string) error
	noServerStart bool
}

func (e *engine) Run(ctx context.Context, env *cli.Env) error {
	if len(env.Args) > 0 {
		return fmt.Errorf("%w: this command takes none", cli.ErrInvalidArgs)
	}

	e.logf = env.Logf
	if e.fs == nil {
		e.fs = os.DirFS(rootDir())
	}
	if e.addr == "" {
		e.addr = fmt.Sprintf(":%d", port)
	}
	if e.openURL == nil {
		e.openURL = browser.OpenURL
	}

	mux := http.NewServeMux()
	mux.Handle("/", static.NewHandler(e.fs, static.Types(), e.logf))

	url := fmt.Sprintf("http://localhost:%d/", port)
	e.logf("Starting server at %s", url)
	e.logf("Press Ctrl+C to stop the server.")

	if e.noServerStart {
		return nil
	}

	return web.ListenAndServe(ctx, &web.ListenAndServeConfig{
		Addr: e.addr,
		Mux:  mux,
		Logf: e.logf,
		Ready: func() {
			// Opening a browser is best-effort: if it fails, the server
			// keeps serving. Never wait for it.
			go e.openURL(url)
		},
	})
}

// rootDir returns the directory containing the running binary, falling back
// to the current directory when the executable path can't be resolved.
func rootDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}
