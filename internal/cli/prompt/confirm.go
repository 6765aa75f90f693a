// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/thoreinstein/mdsync/internal/errors"
)

// ErrPromptCancelled is returned when input ends before an answer is given
// (e.g. Ctrl+D).
var ErrPromptCancelled = errors.New("prompt cancelled")

// Confirmer handles interactive yes/no confirmation prompts.
type Confirmer struct {
	reader io.Reader
	writer io.Writer
}

// NewConfirmer creates a new Confirmer using stdin and stdout.
func NewConfirmer() *Confirmer {
	return &Confirmer{
		reader: os.Stdin,
		writer: os.Stdout,
	}
}

// NewConfirmerWithIO creates a Confirmer with custom reader and writer for testing.
func NewConfirmerWithIO(r io.Reader, w io.Writer) *Confirmer {
	return &Confirmer{
		reader: r,
		writer: w,
	}
}

// ConfirmSync asks whether to proceed with a sync despite validation
// problems. It answers false on anything other than an explicit yes.
func (c *Confirmer) ConfirmSync(problemCount int) (bool, error) {
	noun := "problems"
	if problemCount == 1 {
		noun = "problem"
	}
	fmt.Fprintf(c.writer, "Validation found %d %s. Proceed with sync anyway? [y/N]: ", problemCount, noun)
	return c.read()
}

// Confirm asks an arbitrary yes/no question, defaulting to no.
func (c *Confirmer) Confirm(question string) (bool, error) {
	fmt.Fprintf(c.writer, "%s [y/N]: ", question)
	return c.read()
}

func (c *Confirmer) read() (bool, error) {
	reader := bufio.NewReader(c.reader)
	input, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && input == "" {
			return false, ErrPromptCancelled
		}
		if !errors.Is(err, io.EOF) {
			return false, errors.Wrap(err, "reading confirmation")
		}
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
