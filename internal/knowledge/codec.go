package knowledge

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineSize bounds a single line of a knowledge file.
const maxLineSize = 1 << 20

// Read loads entity/answer pairs from r into kb and returns how many pairs
// were stored.
//
// The input is a sequence of blocks, each opened by a "[intent]" header and
// followed by "entity=answer" lines. Only headers naming a recognized intent
// open a block; the section is created if it does not exist yet. Pairs are
// ignored while no block is open, and a blank line closes the current block.
// A header without a closing bracket stops the read with a *ParseError;
// pairs stored before that point are kept.
func Read(r io.Reader, kb *Base) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	var (
		pairs   int
		lineNo  int
		current *EntityTable
	)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")

		switch {
		case line == "":
			current = nil

		case line[0] == '[':
			end := strings.IndexByte(line, ']')
			if end < 0 {
				return pairs, &ParseError{Line: lineNo, Text: line, Err: ErrMalformedHeader}
			}
			current = nil
			if key, ok := Recognized(line[1:end]); ok {
				current = kb.ensure(key)
			}

		default:
			if current == nil {
				continue
			}
			eq := strings.IndexByte(line, '=')
			if eq <= 0 {
				continue
			}
			current.Set(line[:eq], line[eq+1:])
			pairs++
		}
	}

	if err := scanner.Err(); err != nil {
		return pairs, fmt.Errorf("failed to read knowledge: %w", err)
	}
	return pairs, nil
}

// Write saves every section of kb to w. Each section is written as its
// "[intent]" header, one "entity=answer" line per entry and a blank line.
func Write(w io.Writer, kb *Base) error {
	bw := bufio.NewWriter(w)
	for _, s := range kb.Dump() {
		fmt.Fprintf(bw, "[%s]\n", s.Intent)
		for _, e := range s.Entries {
			fmt.Fprintf(bw, "%s=%s\n", e.Key, e.Answer)
		}
		bw.WriteString("\n")
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write knowledge: %w", err)
	}
	return nil
}
