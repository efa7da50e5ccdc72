// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Servedir starts a static file server for the directory containing its own
binary and opens it in your default browser.

# Usage

	$ servedir

The server listens on port 8000 and serves until interrupted with Ctrl-C.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/servedir/internal/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
