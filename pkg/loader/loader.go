// Package loader turns program text or images into instruction streams.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"voltage/pkg/interpreter"
	"voltage/pkg/lexer"

	"github.com/charmbracelet/log"
)

// ImageExt marks files holding an encoded program image rather than text
const ImageExt = ".vimg"

// SyntaxError reports a word that is neither an integer nor a mnemonic
type SyntaxError struct {
	File  string
	Token lexer.Token
	Err   error
}

func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("%s: invalid word %q", e.Token.Pos, e.Token.Lexeme)
	if e.File != "" {
		msg = e.File + ":" + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// HaltProgram is the program substituted for a missing source
func HaltProgram() []int {
	return []int{int(interpreter.OpHalt)}
}

// Parse tokenizes whitespace-separated cells. A cell is a decimal integer or
// an opcode mnemonic in any case; comments start with "//" or "#".
func Parse(src string) ([]int, error) {
	var program []int

	for _, tok := range lexer.NewLexer(src).Tokens() {
		switch tok.Type {
		case lexer.NUM:
			n, err := strconv.Atoi(tok.Lexeme)
			if err != nil {
				return nil, &SyntaxError{Token: tok, Err: errors.Unwrap(err)}
			}
			program = append(program, n)

		case lexer.ID:
			op, ok := interpreter.LookupOpcode(tok.Lexeme)
			if !ok {
				return nil, &SyntaxError{Token: tok, Err: errors.New("unknown mnemonic")}
			}
			program = append(program, int(op))

		default:
			return nil, &SyntaxError{Token: tok}
		}
	}

	return program, nil
}

// LoadFile reads a program from a text file or, for ImageExt files, a program
// image. A missing file is not an error: it yields HaltProgram.
func LoadFile(path string) ([]int, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("Program not found, substituting HALT", "file", path)
		return HaltProgram(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	if filepath.Ext(path) == ImageExt {
		img, err := DecodeImage(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		log.Debug("Loaded image", "file", path, "cells", len(img.Program))
		return img.Program, nil
	}

	program, err := Parse(string(data))
	if err != nil {
		var se *SyntaxError
		if errors.As(err, &se) {
			se.File = path
		}
		return nil, err
	}

	log.Debug("Loaded program", "file", path, "cells", len(program))
	return program, nil
}
