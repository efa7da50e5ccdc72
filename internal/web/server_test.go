// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"testing"

	"go.astrophena.name/servedir/internal/testutil"
)

func TestListenAndServeConfig(t *testing.T) {
	cases := map[string]struct {
		c       *ListenAndServeConfig
		wantErr error
	}{
		"no Addr": {
			c: &ListenAndServeConfig{
				Addr: "",
				Mux:  http.NewServeMux(),
			},
			wantErr: errNoAddr,
		},
		"nil Mux": {
			c: &ListenAndServeConfig{
				Addr: ":3000",
				Mux:  nil,
			},
			wantErr: errNilMux,
		},
	}
	for _, tc := range cases {
		err := ListenAndServe(context.Background(), tc.c)

		// Don't use && because we want to trap all cases where err is nil.
		if err == nil {
			if tc.wantErr != nil {
				t.Fatalf("must fail with error: %v", tc.wantErr)
			}
		}

		if err != nil && !errors.Is(err, tc.wantErr) {
			t.Fatalf("got error: %v", err)
		}
	}
}

func TestListenAndServe(t *testing.T) {
	// Find a free port for us.
	port, err := getFreePort()
	if err != nil {
		t.Fatalf("Failed to find a free port: %v", err)
	}
	addr := fmt.Sprintf("localhost:%d", port)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "hello")
	})

	var wg sync.WaitGroup

	ready := make(chan struct{})
	errCh := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := ListenAndServe(ctx, &ListenAndServeConfig{
			Addr:  addr,
			Mux:   mux,
			Logf:  t.Logf,
			Ready: func() { close(ready) },
		}); err != nil {
			errCh <- err
		}
	}()

	// Wait until the server is ready.
	select {
	case err := <-errCh:
		t.Fatalf("Test server crashed during startup or runtime: %v", err)
	case <-ready:
	}

	res, err := http.Get("http://" + addr + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, res.StatusCode, http.StatusOK)
	testutil.AssertEqual(t, string(b), "hello")

	// Try to gracefully shutdown the server.
	cancel()
	// Wait until the server shuts down.
	wg.Wait()
	// See if the server failed to shutdown.
	select {
	case err := <-errCh:
		t.Fatalf("Test server crashed during shutdown: %v", err)
	default:
	}
}

func TestListenAndServeBindFailure(t *testing.T) {
	// Occupy a port so that ListenAndServe can't bind to it.
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	err = ListenAndServe(context.Background(), &ListenAndServeConfig{
		Addr: l.Addr().String(),
		Mux:  http.NewServeMux(),
		Logf: t.Logf,
	})
	if err == nil {
		t.Fatal("must fail to bind an already used port")
	}
}

// getFreePort asks the kernel for a free open port that is ready to use.
// Copied from
// https://github.com/phayes/freeport/blob/74d24b5ae9f58fbe4057614465b11352f71cdbea/freeport.go.
func getFreePort() (port int, err error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
