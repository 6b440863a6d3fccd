package interactive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Shell is the readline front end of a Console.
type Shell struct {
	rl *readline.Instance
}

// NewShell creates the readline instance. It is created before the model
// so log output can be routed through Stderr while the prompt is active.
func NewShell() (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "infomodel> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Shell{rl: rl}, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (s *Shell) Stderr() io.Writer {
	return s.rl.Stderr()
}

// Run starts the interactive command loop. cancel is called when the user
// exits.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc, c *Console) {
	defer s.rl.Close()

	c.printHelp(s.rl.Stdout())

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		if !c.Execute(ctx, line, s.rl.Stdout()) {
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return
		}
	}
}
