// Command usernotify manages notification preferences and previews
// notifications on every configured channel.
//
// Usage:
//
//	usernotify migrate
//	usernotify health
//	usernotify prefs --user 42 [--type account.welcome] [--channel mail]
//	usernotify set-prefs --user 42 --file prefs.yaml
//	usernotify send-tests --user 42 --name Ann --email ann@example.com [--locale de] [--push-target arn:...]
//
// Backends are selected with environment variables, see settings.go.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/usernotify/pkg/logger"
)

var errUsage = errors.New("usage: usernotify <migrate|health|prefs|set-prefs|send-tests> [flags]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		slog.Error("usernotify failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	name, args := args[0], args[1:]

	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}

	s, err := loadSettings(cmd.needsMail)
	if err != nil {
		return err
	}
	log := logger.NewFromConfig(s.Logger)
	logger.SetAsDefault(log)

	return cmd.run(ctx, commandEnv{
		settings: s,
		logger:   log,
		args:     args,
		stdin:    stdin,
		stdout:   stdout,
	})
}
