package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/nuudash/internal/authapi"
	"github.com/dmitrijs2005/nuudash/internal/client/client"
	"github.com/dmitrijs2005/nuudash/internal/client/config"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// authAPI is the identity provider surface the CLI uses.
type authAPI interface {
	SignIn(ctx context.Context, username, password string) (authapi.Session, error)
	SignUp(ctx context.Context, email, password, confirm string) (string, error)
	WhoAmI(ctx context.Context, accessToken string) ([]byte, error)
	ConfigureOTP(ctx context.Context, accessToken string) (string, error)
	ConfirmOTP(ctx context.Context, accessToken, code string) (bool, error)
}

// Session is the signed-in user. The zero value means signed out.
type Session struct {
	Username    string
	AccessToken string
	Membership  string
}

type App struct {
	config  *config.Config
	auth    authAPI
	dash    client.Client
	session Session
	reader  *bufio.Reader
	out     io.Writer

	mu   sync.Mutex
	mode Mode
}

func NewApp(c *config.Config) (*App, error) {
	dash, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	auth := authapi.New(c.AuthAPIBaseURL, c.AuthTimeout)

	return newApp(c, auth, dash, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, auth authAPI, dash client.Client, in io.Reader, out io.Writer) *App {
	return &App{config: c, auth: auth, dash: dash, reader: bufio.NewReader(in), out: out}
}

func (a *App) printf(format string, args ...any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.printf("Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.dash.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.AccessToken != ""
}

// checkOnline pings the dashboard server once and updates the mode.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.dash.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
