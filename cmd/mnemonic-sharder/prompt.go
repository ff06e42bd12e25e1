package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/Klingon-tech/mnemonic-sharder/internal/sharder"
	"github.com/Klingon-tech/mnemonic-sharder/internal/ssss"
)

// prompter reads answers from stdin and writes prompts to stderr, so that
// stdout carries only command output.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
	tty bool
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	p := &prompter{in: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.tty = true
	}
	return p
}

// line prompts and reads one trimmed line. A final line without a newline
// is returned as is; io.EOF is returned only when nothing was read.
func (p *prompter) line(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(p.out, prompt)
	}
	s, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// secret prompts for a line without echo when stdin is a terminal.
func (p *prompter) secret(prompt string) (string, error) {
	if !p.tty {
		return p.line(prompt)
	}
	fmt.Fprint(p.out, prompt)
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// number prompts for a positive integer, returning def on an empty answer.
func (p *prompter) number(prompt string, def int) (int, error) {
	s, err := p.line(fmt.Sprintf("%s [%d]: ", prompt, def))
	if err != nil {
		return 0, err
	}
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return n, nil
}

// shares prompts for a share count and then each share's index and words.
func (p *prompter) shares(def int) ([]sharder.Share, error) {
	n, err := p.number("Enter number of shares you will use to recover the secret", def)
	if err != nil {
		return nil, err
	}
	shares := make([]sharder.Share, 0, n)
	for i := 0; i < n; i++ {
		s, err := p.line("Enter share index: ")
		if err != nil {
			return nil, err
		}
		idx, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid share index %q", s)
		}
		words, err := p.secret("Enter mnemonic share: ")
		if err != nil {
			return nil, err
		}
		shares = append(shares, sharder.Share{Index: idx, Words: strings.Fields(words)})
	}
	return shares, nil
}

// shareLines reads one share per line until EOF. Blank lines and lines
// starting with # are skipped.
func (p *prompter) shareLines() ([]sharder.Share, error) {
	var shares []sharder.Share
	for {
		s, err := p.line("")
		if errors.Is(err, io.EOF) {
			return shares, nil
		}
		if err != nil {
			return nil, err
		}
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		sh, err := parseShare(s)
		if err != nil {
			return nil, err
		}
		shares = append(shares, sh)
	}
}

// parseShare parses "index: word word ...", "index word word ..." or the
// raw "index-hex" form. Raw shares come back with Hex set and no words.
func parseShare(s string) (sharder.Share, error) {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, ": \t") && strings.Contains(s, "-") {
		raw, err := ssss.ParseShare(s)
		if err != nil {
			return sharder.Share{}, err
		}
		return sharder.Share{Index: raw.Index, Hex: raw.Value}, nil
	}

	var idxText, rest string
	if i, w, ok := strings.Cut(s, ":"); ok {
		idxText, rest = i, w
	} else {
		fields := strings.Fields(s)
		if len(fields) == 0 {
			return sharder.Share{}, fmt.Errorf("empty share")
		}
		idxText, rest = fields[0], strings.Join(fields[1:], " ")
	}
	idxText = strings.TrimSpace(idxText)
	idx, err := strconv.Atoi(idxText)
	if err != nil {
		return sharder.Share{}, fmt.Errorf("invalid share index %q", idxText)
	}
	words := strings.Fields(rest)
	if len(words) == 0 {
		return sharder.Share{}, fmt.Errorf("share %d has no words", idx)
	}
	return sharder.Share{Index: idx, Words: words}, nil
}
