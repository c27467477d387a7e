package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/frostline-mc/frostline/internal/auth/msa"
)

func granterPort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	_ = listener.Close()
	return port
}

type obtainResult struct {
	code string
	err  error
}

// obtainAsync runs ObtainCode in the background so the test can play the
// browser's part against the loopback listener.
func obtainAsync(granter *BrowserGranter, expectedState string) <-chan obtainResult {
	out := make(chan obtainResult, 1)
	go func() {
		code, err := granter.ObtainCode(context.Background(), "https://login.example/authorize", expectedState)
		out <- obtainResult{code: code, err: err}
	}()
	return out
}

// hitCallback retries until the listener is accepting connections.
func hitCallback(t *testing.T, port int, query string) {
	t.Helper()
	callbackURL := fmt.Sprintf("http://127.0.0.1:%d/callback?%s", port, query)
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(callbackURL)
		if err == nil {
			_ = resp.Body.Close()
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("callback request failed: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestBrowserGranterLoopbackCallback(t *testing.T) {
	t.Parallel()

	port := granterPort(t)
	granter := &BrowserGranter{Port: port, Timeout: 5 * time.Second, NoBrowser: true}

	result := obtainAsync(granter, "state-1")
	hitCallback(t, port, "code=code-1&state=state-1")

	got := <-result
	if got.err != nil {
		t.Fatalf("ObtainCode() error: %v", got.err)
	}
	if got.code != "code-1" {
		t.Errorf("code = %q, want code-1", got.code)
	}
}

func TestBrowserGranterLoopbackStateMismatch(t *testing.T) {
	t.Parallel()

	port := granterPort(t)
	granter := &BrowserGranter{Port: port, Timeout: 5 * time.Second, NoBrowser: true}

	result := obtainAsync(granter, "state-1")
	hitCallback(t, port, "code=code-1&state=tampered")

	got := <-result
	if !errors.Is(got.err, msa.ErrStateMismatch) {
		t.Fatalf("error = %v, want ErrStateMismatch", got.err)
	}
}

func TestBrowserGranterLoopbackMissingState(t *testing.T) {
	t.Parallel()

	port := granterPort(t)
	granter := &BrowserGranter{Port: port, Timeout: 5 * time.Second, NoBrowser: true}

	// The loopback redirect always carries the echoed state; a bare code is
	// rejected rather than trusted.
	result := obtainAsync(granter, "state-1")
	hitCallback(t, port, "code=code-1")

	got := <-result
	if !errors.Is(got.err, msa.ErrStateMismatch) {
		t.Fatalf("error = %v, want ErrStateMismatch", got.err)
	}
}

func TestBrowserGranterManualPaste(t *testing.T) {
	t.Parallel()

	granter := &BrowserGranter{
		Port:      granterPort(t),
		Timeout:   5 * time.Second,
		NoBrowser: true,
		Input:     strings.NewReader("http://localhost:3000/callback?code=pasted-code&state=state-1\n"),
	}

	code, err := granter.ObtainCode(context.Background(), "https://login.example/authorize", "state-1")
	if err != nil {
		t.Fatalf("ObtainCode() error: %v", err)
	}
	if code != "pasted-code" {
		t.Errorf("code = %q, want pasted-code", code)
	}
}

func TestBrowserGranterManualPasteStrippedState(t *testing.T) {
	t.Parallel()

	// A hand-copied URL may have lost its state parameter; the code is still
	// accepted on this path.
	granter := &BrowserGranter{
		Port:      granterPort(t),
		Timeout:   5 * time.Second,
		NoBrowser: true,
		Input:     strings.NewReader("http://localhost:3000/callback?code=pasted-code\n"),
	}

	code, err := granter.ObtainCode(context.Background(), "https://login.example/authorize", "state-1")
	if err != nil {
		t.Fatalf("ObtainCode() error: %v", err)
	}
	if code != "pasted-code" {
		t.Errorf("code = %q, want pasted-code", code)
	}
}

func TestBrowserGranterManualPasteStateMismatch(t *testing.T) {
	t.Parallel()

	granter := &BrowserGranter{
		Port:      granterPort(t),
		Timeout:   5 * time.Second,
		NoBrowser: true,
		Input:     strings.NewReader("http://localhost:3000/callback?code=pasted-code&state=tampered\n"),
	}

	_, err := granter.ObtainCode(context.Background(), "https://login.example/authorize", "state-1")
	if !errors.Is(err, msa.ErrStateMismatch) {
		t.Fatalf("error = %v, want ErrStateMismatch", err)
	}
}
