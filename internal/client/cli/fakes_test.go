package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/nuudash/internal/authapi"
	"github.com/dmitrijs2005/nuudash/internal/client/config"
	"github.com/dmitrijs2005/nuudash/internal/server/view"
)

type fakeAuth struct {
	session   authapi.Session
	signInErr error
	gotUser   string
	gotPass   string

	signUpMsg  string
	signUpErr  error
	gotConfirm string
	whoami     []byte
	whoamiErr  error
	otpURL     string
	otpValid   bool
	otpErr     error
	gotCode    string
	gotToken   string
}

func (f *fakeAuth) SignIn(_ context.Context, user, pass string) (authapi.Session, error) {
	f.gotUser, f.gotPass = user, pass
	return f.session, f.signInErr
}

func (f *fakeAuth) SignUp(_ context.Context, email, pass, confirm string) (string, error) {
	f.gotUser, f.gotPass, f.gotConfirm = email, pass, confirm
	return f.signUpMsg, f.signUpErr
}

func (f *fakeAuth) WhoAmI(_ context.Context, token string) ([]byte, error) {
	f.gotToken = token
	return f.whoami, f.whoamiErr
}

func (f *fakeAuth) ConfigureOTP(_ context.Context, token string) (string, error) {
	f.gotToken = token
	return f.otpURL, f.otpErr
}

func (f *fakeAuth) ConfirmOTP(_ context.Context, token, code string) (bool, error) {
	f.gotToken, f.gotCode = token, code
	return f.otpValid, f.otpErr
}

type fakeDash struct {
	mu      sync.Mutex
	payload view.Payload
	err     error
	pingErr error
	closed  bool

	gotToken        string
	gotKinds        []string
	gotInstitutions []string
}

func (f *fakeDash) Close() error { f.closed = true; return nil }

func (f *fakeDash) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeDash) setPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

func (f *fakeDash) Dashboard(_ context.Context, token string, kinds, institutions []string) (view.Payload, error) {
	f.gotToken, f.gotKinds, f.gotInstitutions = token, kinds, institutions
	return f.payload, f.err
}

// safeBuffer is a bytes.Buffer that the watcher goroutine can share.
type safeBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *safeBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *safeBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.RequestTimeout = time.Second
	return c
}

func newTestApp(auth *fakeAuth, dash *fakeDash, input string) (*App, *safeBuffer) {
	out := &safeBuffer{}
	return newApp(testConfig(), auth, dash, strings.NewReader(input), out), out
}

// stubInputs replaces the prompt helpers: text answers come from texts and
// passwords from passwords, in order.
func stubInputs(t *testing.T, texts []string, passwords []string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(texts) == 0 {
			return "", io.EOF
		}
		s := texts[0]
		texts = texts[1:]
		return s, nil
	}
	getPassword = func(_ string, _ io.Writer) (string, error) {
		if len(passwords) == 0 {
			return "", io.EOF
		}
		s := passwords[0]
		passwords = passwords[1:]
		return s, nil
	}
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}
