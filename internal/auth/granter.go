package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/frostline-mc/frostline/internal/auth/msa"
	"github.com/frostline-mc/frostline/internal/browser"
	"github.com/frostline-mc/frostline/internal/misc"
)

// CodeGranter obtains an authorization code for a constructed authorize URL.
// The browser-based granter drives a real interactive login; tests substitute
// a fake that returns a canned code.
type CodeGranter interface {
	// ObtainCode presents authURL to the user and returns the captured
	// authorization code. The implementation validates the echoed state
	// against expectedState before handing the code back.
	ObtainCode(ctx context.Context, authURL, expectedState string) (string, error)
}

// BrowserGranter captures the authorization code by opening the system browser
// and listening on the loopback redirect. When Input is set, a callback URL
// pasted on that stream is accepted as an alternative to the loopback hit,
// which covers headless machines where the browser runs elsewhere.
type BrowserGranter struct {
	// Port is the loopback port the callback listener binds.
	Port int

	// Timeout bounds how long the granter waits for the callback.
	Timeout time.Duration

	// NoBrowser suppresses the automatic browser launch and prints the URL
	// instead.
	NoBrowser bool

	// Input is an optional stream to read a manually pasted callback URL from,
	// typically os.Stdin.
	Input io.Reader
}

type callbackOutcome struct {
	result *msa.OAuthResult
	err    error
}

// ObtainCode runs the interactive leg of the login: start the loopback
// listener, open the browser, and wait for whichever of the redirect or a
// pasted callback URL arrives first. The listener is stopped before returning
// on every path, including the no-code one.
//
// State checking differs per source. The loopback redirect always carries the
// state Microsoft echoes back, so a missing or mismatched value is rejected.
// A manually pasted URL may have had its query trimmed, so state is only
// checked there when present.
func (g *BrowserGranter) ObtainCode(ctx context.Context, authURL, expectedState string) (string, error) {
	server := msa.NewOAuthServer(g.Port)
	if err := server.Start(); err != nil {
		return "", fmt.Errorf("failed to start callback listener: %w", err)
	}
	defer func() {
		_ = server.Stop(context.Background())
	}()

	g.presentURL(authURL)

	manualChan := make(chan *misc.OAuthCallback, 1)
	if g.Input != nil {
		log.Info("Or paste the full callback URL here once the browser redirects:")
		go g.readManualCallback(manualChan)
	}

	timeout := g.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	serverChan := make(chan callbackOutcome, 1)
	go func() {
		result, err := server.WaitForCallback(timeout)
		serverChan <- callbackOutcome{result: result, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case cb := <-manualChan:
		if cb.Error != "" {
			return "", fmt.Errorf("authorization failed: %s", callbackErrorText(cb.Error, cb.ErrorDescription))
		}
		if cb.State != "" && cb.State != expectedState {
			return "", msa.ErrStateMismatch
		}
		if cb.State == "" {
			log.Debug("pasted callback carried no state parameter, accepting code without CSRF check")
		}
		log.Debug("authorization code received from pasted callback URL")
		return cb.Code, nil
	case outcome := <-serverChan:
		if outcome.err != nil {
			return "", outcome.err
		}
		switch {
		case outcome.result.Error == "no_code":
			return "", msa.ErrNoAuthorizationCode
		case outcome.result.Error != "":
			return "", fmt.Errorf("authorization failed: %s", outcome.result.Error)
		}
		if outcome.result.State != expectedState {
			return "", msa.ErrStateMismatch
		}
		log.Debug("authorization code received from loopback callback")
		return outcome.result.Code, nil
	}
}

// presentURL opens the browser, or prints the URL when that is suppressed or
// fails.
func (g *BrowserGranter) presentURL(authURL string) {
	if g.NoBrowser || !browser.IsAvailable() {
		log.Infof("Open this URL in your browser to sign in:\n%s", authURL)
		return
	}
	if err := browser.OpenURL(authURL); err != nil {
		log.WithField("error", err).Warn("failed to open browser automatically")
		log.Infof("Open this URL in your browser to sign in:\n%s", authURL)
		return
	}
	log.Info("Opened the sign-in page in your browser")
}

// readManualCallback scans Input line by line until one parses as a callback
// URL. Blank lines are skipped; parse failures are reported and the scan
// continues.
func (g *BrowserGranter) readManualCallback(out chan<- *misc.OAuthCallback) {
	scanner := bufio.NewScanner(g.Input)
	for scanner.Scan() {
		cb, err := misc.ParseOAuthCallback(scanner.Text())
		if err != nil {
			log.WithField("error", err).Warn("could not parse pasted callback URL")
			continue
		}
		if cb == nil {
			continue
		}
		select {
		case out <- cb:
		default:
		}
		return
	}
}

func callbackErrorText(code, description string) string {
	if description != "" {
		return fmt.Sprintf("%s (%s)", code, description)
	}
	return code
}
