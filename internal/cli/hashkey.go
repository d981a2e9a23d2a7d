package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/Laisky/errors/v2"
	"golang.org/x/term"

	"github.com/outreachboard/client-reporting-backend/middleware"
)

var errKeyMismatch = errors.New("keys do not match")

type HashAdminKeyCmd struct {
	MinLength int `help:"Reject keys shorter than this." default:"16"`
}

func (c *HashAdminKeyCmd) Run(ctx *Context) error {
	key, err := ctx.ReadSecret("Admin key:         ")
	if err != nil {
		return err
	}
	if len(key) < c.MinLength {
		return errors.Errorf("admin key must be at least %d characters", c.MinLength)
	}
	confirm, err := ctx.ReadSecret("Confirm admin key: ")
	if err != nil {
		return err
	}
	if key != confirm {
		return errKeyMismatch
	}

	hash, err := middleware.HashAdminKey(key)
	if err != nil {
		return errors.Wrap(err, "hash admin key")
	}
	fmt.Fprintf(ctx.Out, "ADMIN_KEY_HASH=%s\n", hash)
	return nil
}

// readSecretWithMask reads a line from the terminal echoing asterisks.
func readSecretWithMask(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", errors.Wrap(err, "read key")
		}
		return trimNewline(line), nil
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		return string(secret), err
	}
	defer term.Restore(fd, oldState)

	var secret []byte
	reader := bufio.NewReader(os.Stdin)
	for {
		char, _, err := reader.ReadRune()
		if err != nil {
			fmt.Fprint(os.Stderr, "\r\n")
			return string(secret), nil
		}

		switch char {
		case '\n', '\r':
			fmt.Fprint(os.Stderr, "\r\n")
			return string(secret), nil
		case 127, 8: // backspace
			if len(secret) > 0 {
				secret = secret[:len(secret)-1]
				fmt.Fprint(os.Stderr, "\b \b")
			}
		case 3: // Ctrl+C
			fmt.Fprint(os.Stderr, "\r\n")
			return "", errors.New("interrupted")
		default:
			if char >= 32 && char <= 126 {
				secret = append(secret, byte(char))
				fmt.Fprint(os.Stderr, "*")
			}
		}
	}
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
