// Package source turns files, stdin and request bodies into selection
// blocks for the scanner. Each file or request is one block.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// MaxBlockBytes caps a single block.
const MaxBlockBytes = 64 << 20

// StdinName is the argument and block name for standard input.
const StdinName = "-"

var (
	// ErrNoInput is returned when no file was named and stdin is an
	// interactive terminal.
	ErrNoInput = errors.New("no input: pass a file or pipe text on stdin")

	// ErrTooLarge is returned for a block over MaxBlockBytes.
	ErrTooLarge = errors.New("input too large")
)

// Block is one selection.
type Block struct {
	Name string
	Text string
}

// Reader resolves command-line arguments into blocks.
type Reader struct {
	Stdin io.Reader

	// Interactive reports whether Stdin is a terminal. Nil means never.
	Interactive func() bool
}

// NewReader reads from the process's stdin.
func NewReader() *Reader {
	return &Reader{Stdin: os.Stdin, Interactive: stdinIsTerminal}
}

// Read returns one block per argument in order. No arguments means stdin.
// "-" may appear at most once.
func (r *Reader) Read(args []string) ([]Block, error) {
	if len(args) == 0 {
		args = []string{StdinName}
	}

	blocks := make([]Block, 0, len(args))
	seenStdin := false
	for _, arg := range args {
		if arg == StdinName {
			if seenStdin {
				return nil, fmt.Errorf("stdin named more than once")
			}
			seenStdin = true
			b, err := r.readStdin()
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, b)
			continue
		}
		b, err := ReadFile(arg)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func (r *Reader) readStdin() (Block, error) {
	if r.Stdin == nil || (r.Interactive != nil && r.Interactive()) {
		return Block{}, ErrNoInput
	}
	text, err := readLimited(r.Stdin)
	if err != nil {
		return Block{}, fmt.Errorf("reading stdin: %w", err)
	}
	return Block{Name: "stdin", Text: text}, nil
}

// ReadFile reads path as one block.
func ReadFile(path string) (Block, error) {
	f, err := os.Open(path)
	if err != nil {
		return Block{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Block{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Block{}, fmt.Errorf("%s is a directory", path)
	}

	text, err := readLimited(f)
	if err != nil {
		return Block{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return Block{Name: path, Text: text}, nil
}

// FromString wraps text received from a request or tool call.
func FromString(name, text string) Block {
	return Block{Name: name, Text: text}
}

// Texts extracts the raw text of each block, in order.
func Texts(blocks []Block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.Text
	}
	return out
}

// Names joins block names for logs.
func Names(blocks []Block) string {
	names := make([]string, len(blocks))
	for i, b := range blocks {
		names[i] = b.Name
	}
	return strings.Join(names, ",")
}

func readLimited(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxBlockBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) > MaxBlockBytes {
		return "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, MaxBlockBytes)
	}
	return string(data), nil
}

func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
