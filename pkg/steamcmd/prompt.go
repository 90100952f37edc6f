package steamcmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks the user for credentials that were not supplied programmatically
type Prompter interface {
	Username() (string, error)
	Password() (string, error)
}

// TerminalPrompter reads the username from stdin and the password from the terminal without echo
type TerminalPrompter struct {
	In  *os.File
	Out io.Writer
}

// Returns the input file, defaulting to stdin
func (tp *TerminalPrompter) in() *os.File {
	if tp.In == nil {
		return os.Stdin
	}
	return tp.In
}

// Returns the output writer, defaulting to stderr
func (tp *TerminalPrompter) out() io.Writer {
	if tp.Out == nil {
		return os.Stderr
	}
	return tp.Out
}

// Prompts for a steam username (echoed)
func (tp *TerminalPrompter) Username() (string, error) {
	fmt.Fprint(tp.out(), "Please enter steam username: ")
	line, err := bufio.NewReader(tp.in()).ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Prompts for a steam password (masked).
// Returns an error if stdin is not a terminal.
func (tp *TerminalPrompter) Password() (string, error) {
	fd := int(tp.in().Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("cannot prompt for password: stdin is not a terminal")
	}
	fmt.Fprint(tp.out(), "Please enter steam password: ")
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(tp.out())
	if err != nil {
		return "", err
	}
	return string(password), nil
}
