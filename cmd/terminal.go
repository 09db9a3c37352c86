package main

import (
	"io"
	"os"

	"golang.org/x/term"
)

// termConsole reads lines from a raw-mode terminal with line editing and
// history.
type termConsole struct {
	t *term.Terminal
}

func (c *termConsole) Write(p []byte) (int, error) { return c.t.Write(p) }

func (c *termConsole) ReadLine(prompt string) (string, error) {
	c.t.SetPrompt(prompt)
	return c.t.ReadLine()
}

// openConsole returns a terminal console when in is a TTY, else a plain line
// console. The returned func restores the terminal state.
func openConsole(in *os.File, out *os.File) (console, func()) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return newLineConsole(in, out), func() {}
	}

	enableVT(in, out)
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return newLineConsole(in, out), func() {}
	}
	rw := struct {
		io.Reader
		io.Writer
	}{in, out}
	return &termConsole{t: term.NewTerminal(rw, prompt)}, func() {
		term.Restore(fd, oldState)
	}
}
