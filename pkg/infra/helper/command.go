package helper

import "strings"

// masked replaces sensitive argument values in any echo of a command line
const masked = "***"

// Arg is a single command-line argument. Sensitive arguments render masked
// from String and Redacted, so redaction is structural rather than
// positional: a log line can never leak a secret by getting an index wrong.
type Arg struct {
	value     string
	sensitive bool
}

// Plain creates a loggable argument
func Plain(v string) Arg {
	return Arg{value: v}
}

// Secret creates an argument whose value must never reach logs
func Secret(v string) Arg {
	return Arg{value: v, sensitive: true}
}

// Value returns the raw argument value for process execution
func (a Arg) Value() string {
	return a.value
}

// String returns the argument as safe for logging
func (a Arg) String() string {
	if a.sensitive {
		return masked
	}
	return a.value
}

// Command is an external command invocation built from typed arguments
type Command struct {
	name string
	args []Arg
}

// NewCommand creates a command for the given binary and arguments
func NewCommand(name string, args ...Arg) *Command {
	return &Command{name: name, args: args}
}

// Args returns the raw argument values to hand to the process
func (c *Command) Args() []string {
	out := make([]string, len(c.args))
	for i, a := range c.args {
		out[i] = a.Value()
	}
	return out
}

// Redacted returns the full command line with sensitive values masked
func (c *Command) Redacted() string {
	parts := make([]string, 0, len(c.args)+1)
	parts = append(parts, c.name)
	for _, a := range c.args {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, " ")
}
