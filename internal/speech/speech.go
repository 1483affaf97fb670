// Package speech reads alarm titles aloud.
package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultCommand is used when a Command is built without a program.
const DefaultCommand = "espeak"

// Speaker reads text aloud.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Command speaks by running an external text-to-speech program with the text
// as its last argument.
type Command struct {
	name string
	args []string
}

// NewCommand parses a command line such as "espeak -s 150".
func NewCommand(line string) *Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		fields = []string{DefaultCommand}
	}
	return &Command{name: fields[0], args: fields[1:]}
}

func (c *Command) Speak(ctx context.Context, text string) error {
	args := append(append([]string{}, c.args...), text)
	out, err := exec.CommandContext(ctx, c.name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("speech - Speak - %s: %w: %s", c.name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Nop discards everything it is asked to say.
type Nop struct{}

func (Nop) Speak(context.Context, string) error { return nil }

// New returns a Command for line, or Nop when line is "-".
func New(line string) Speaker {
	if strings.TrimSpace(line) == "-" {
		return Nop{}
	}
	return NewCommand(line)
}
