package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/nuudash/internal/client/client"
	"github.com/dmitrijs2005/nuudash/internal/common"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	SignIn(ctx context.Context) error
	SignUp(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ConfigureOTP(ctx context.Context) error
	ConfirmOTP(ctx context.Context) error
	Dashboard(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
}

// runREPL reads commands from reader until EOF or "exit"/"quit" and writes
// prompts and messages to w. Prompts for command input read from the same
// reader, so no input is buffered away from them.
//
//	Signed out:
//	  - help              show available commands
//	  - signin | login    sign in with username and password
//	  - signup            create an account
//	  - exit | quit       leave the program
//
//	Signed in:
//	  - dashboard [-kind K]... [-bank B]...
//	  - whoami            show the identity claim
//	  - otp               print the OTP enrollment URL
//	  - confirmotp        confirm an OTP code
//	  - logout            forget the session
//
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	say := func(args ...any) { fmt.Fprintln(w, args...) }

	for {
		fmt.Fprintf(w, "nuu %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			say()
			return
		}
		parts := splitArgs(strings.TrimSpace(line))
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		err = nil
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				say("Available commands: dashboard [-kind K] [-bank B], whoami, otp, confirmotp, logout, exit")
			} else {
				say("Available commands: signin, signup, exit")
			}

		case "signin", "login":
			err = a.SignIn(ctx)

		case "signup", "register":
			err = a.SignUp(ctx)

		case "whoami":
			err = a.WhoAmI(ctx)

		case "otp":
			err = a.ConfigureOTP(ctx)

		case "confirmotp":
			err = a.ConfirmOTP(ctx)

		case "dashboard", "d":
			err = a.Dashboard(ctx, args)

		case "logout":
			err = a.Logout(ctx)

		case "exit", "quit":
			say("Bye!")
			return

		default:
			say("Unknown command:", cmd)
		}

		if err != nil {
			say(describeError(err))
		}
	}
}

// describeError turns a command error into the line shown to the user.
func describeError(err error) string {
	var ae *common.AuthError
	var ve *common.ValidationError

	switch {
	case errors.Is(err, errNotSignedIn), errors.Is(err, common.ErrUnauthorized):
		return "No estás autenticado. Por favor inicia sesión."
	case errors.Is(err, common.ErrTokenExpired):
		return "Tu sesión expiró. Por favor inicia sesión de nuevo."
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &ae):
		return ae.Error()
	case errors.Is(err, common.ErrIdentityUnresolved):
		return "No se pudo extraer el ID del usuario del mensaje whoami."
	case errors.Is(err, common.ErrClientNotFound):
		return "No se encontró información financiera para tu usuario. Contacta a soporte para registrar tus datos financieros."
	case errors.Is(err, common.ErrDatasetUnavailable):
		return "Error al cargar los datos. Intenta más tarde."
	case errors.Is(err, common.ErrAuthUnavailable):
		return "El servicio de autenticación no está disponible."
	case errors.Is(err, client.ErrUnavailable):
		return "El servidor no está disponible."
	default:
		return "Error: " + err.Error()
	}
}
