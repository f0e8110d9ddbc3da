package sitegen

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// maxOutput bounds how much command output is carried in an error
const maxOutput = 4096

// CommandRegenerator rebuilds the site by running an external command
// through the shell
type CommandRegenerator struct {
	Command string
	Dir     string
	log     zerolog.Logger
}

// NewCommandRegenerator returns a regenerator that runs command in dir
func NewCommandRegenerator(command, dir string, log zerolog.Logger) *CommandRegenerator {
	return &CommandRegenerator{
		Command: command,
		Dir:     dir,
		log:     log.With().Str("component", "site_command").Logger(),
	}
}

// Regenerate runs the command and returns its combined output in the error
// when it fails
func (r *CommandRegenerator) Regenerate(ctx context.Context) error {
	start := time.Now()

	cmd := exec.CommandContext(ctx, "sh", "-c", r.Command)
	cmd.Dir = r.Dir
	cmd.WaitDelay = time.Second
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("site command %q failed: %w: %s", r.Command, err, tail(out.String()))
	}

	r.log.Info().
		Str("command", r.Command).
		Dur("duration", time.Since(start)).
		Msg("Site command completed")
	return nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxOutput {
		return "..." + s[len(s)-maxOutput:]
	}
	return s
}
