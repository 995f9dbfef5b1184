package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/dmitrijs2005/nuudash/internal/authapi"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errNotSignedIn = errors.New("not signed in")

func (a *App) requireSession() error {
	if !a.isLoggedIn() {
		return errNotSignedIn
	}
	return nil
}

func (a *App) writer() io.Writer {
	return lockedWriter{a}
}

type lockedWriter struct{ a *App }

func (w lockedWriter) Write(p []byte) (int, error) {
	w.a.mu.Lock()
	defer w.a.mu.Unlock()
	return w.a.out.Write(p)
}

// SignIn prompts for credentials and starts a session.
func (a *App) SignIn(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.writer())
	if err != nil {
		return err
	}
	password, err := getPassword("Password", a.writer())
	if err != nil {
		return err
	}

	s, err := a.auth.SignIn(ctx, username, password)
	if err != nil {
		return err
	}

	a.session = Session{Username: username, AccessToken: s.AccessToken, Membership: s.Membership}
	if s.Membership != "" {
		a.printf("Logged in as %s (%s)\n", username, strings.ToUpper(s.Membership))
	} else {
		a.printf("Logged in as %s\n", username)
	}
	return nil
}

// SignUp prompts for an email and a password typed twice.
func (a *App) SignUp(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.writer())
	if err != nil {
		return err
	}
	password, err := getPassword("Password", a.writer())
	if err != nil {
		return err
	}
	confirm, err := getPassword("Confirm Password", a.writer())
	if err != nil {
		return err
	}

	msg, err := a.auth.SignUp(ctx, strings.TrimSpace(email), password, confirm)
	if err != nil {
		return err
	}

	a.printf("%s\n", msg)
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	raw, err := a.auth.WhoAmI(ctx, a.session.AccessToken)
	if err != nil {
		return err
	}

	a.printf("%s\n", strings.TrimSpace(string(raw)))
	return nil
}

// ConfigureOTP prints the enrollment URL for an authenticator app.
func (a *App) ConfigureOTP(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	url, err := a.auth.ConfigureOTP(ctx, a.session.AccessToken)
	if err != nil {
		return err
	}

	a.printf("Add this URL to your authenticator app:\n%s\n", url)
	return nil
}

func (a *App) ConfirmOTP(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	code, err := getSimpleText(a.reader, "OTP code", a.writer())
	if err != nil {
		return err
	}

	ok, err := a.auth.ConfirmOTP(ctx, a.session.AccessToken, code)
	if err != nil {
		return err
	}

	if ok {
		a.printf("OTP configurado correctamente.\n")
	} else {
		a.printf("Intente nuevamente.\n")
	}
	return nil
}

// Logout forgets the session.
func (a *App) Logout(ctx context.Context) error {
	a.session = Session{}
	a.printf("Logged out\n")
	return nil
}

var _ authAPI = (*authapi.Client)(nil)
