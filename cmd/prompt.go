package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// stdioPrompter collects operator answers from standard input.
type stdioPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newStdioPrompter() *stdioPrompter {
	return &stdioPrompter{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

func (p *stdioPrompter) Ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
