package parser

import "fmt"

// SyntaxError locates the first ERROR or MISSING node of a parse tree.
// Line and Column are 1-based.
type SyntaxError struct {
	File   string
	Line   uint32
	Column uint32
	// Near is the offending source text, or the expected token when
	// Missing is set.
	Near    string
	Missing bool
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	msg := "syntax error"
	switch {
	case e.Missing:
		msg = fmt.Sprintf("missing %q", e.Near)
	case e.Near != "":
		msg = fmt.Sprintf("syntax error near %q", e.Near)
	}
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, msg)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, msg)
}

// FileReadError is returned when a file cannot be read.
type FileReadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FileReadError) Unwrap() error {
	return e.Err
}
