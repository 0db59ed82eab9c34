// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// Confirmer asks yes/no questions on the controlling terminal.
type Confirmer struct {
	reader io.Reader
	writer io.Writer
}

// NewConfirmer creates a Confirmer using stdin and stderr. Questions go to
// stderr so they never mix with captured borg output on stdout.
func NewConfirmer() *Confirmer {
	return &Confirmer{
		reader: os.Stdin,
		writer: os.Stderr,
	}
}

// NewConfirmerWithIO creates a Confirmer with custom reader and writer for testing.
func NewConfirmerWithIO(r io.Reader, w io.Writer) *Confirmer {
	return &Confirmer{
		reader: r,
		writer: w,
	}
}

// Confirm prints the question and reads one answer line.
//
// Any answer starting with "n" or "N" declines; everything else (including
// an empty line) confirms, so plain Enter accepts the default. EOF (e.g.
// Ctrl+D) declines without error.
func (c *Confirmer) Confirm(question string) (bool, error) {
	fmt.Fprint(c.writer, question)

	reader := bufio.NewReader(c.reader)
	input, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			// Treat a closed stdin as a decline rather than running a
			// command nobody confirmed.
			return false, nil
		}
		return false, errors.Wrap(err, "reading confirmation")
	}

	answer := strings.ToLower(strings.TrimSpace(input))
	return !strings.HasPrefix(answer, "n"), nil
}
