package cli

import (
	"context"
	"flag"
	"io"
	"strings"

	"github.com/dmitrijs2005/nuudash/internal/common"
)

const dashboardUsage = "usage: dashboard [-kind Debit|Credit]... [-bank NAME]..."

// listFlag collects every occurrence of a repeatable flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// Dashboard fetches and renders the dashboard. args are the command
// arguments after "dashboard".
func (a *App) Dashboard(ctx context.Context, args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	var kinds, banks listFlag

	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Var(&kinds, "kind", "operation kind, repeatable")
	fs.Var(&banks, "bank", "institution, repeatable")
	if err := fs.Parse(args); err != nil || fs.NArg() > 0 {
		return common.NewValidationError("args", dashboardUsage)
	}

	if a.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.RequestTimeout)
		defer cancel()
	}

	p, err := a.dash.Dashboard(ctx, a.session.AccessToken, kinds, banks)
	if err != nil {
		return err
	}

	return render(a.writer(), p)
}

// splitArgs splits a command line on spaces, keeping double-quoted runs
// together so institution names with spaces survive.
func splitArgs(line string) []string {
	var (
		out     []string
		cur     strings.Builder
		quoted  bool
		pending bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			pending = true
		case (r == ' ' || r == '\t') && !quoted:
			if pending {
				out = append(out, cur.String())
				cur.Reset()
				pending = false
			}
		default:
			cur.WriteRune(r)
			pending = true
		}
	}
	if pending {
		out = append(out, cur.String())
	}
	return out
}
