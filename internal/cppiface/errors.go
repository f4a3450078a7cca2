package cppiface

import "fmt"

// NoDeclarationMessage is the message carried when no function-shaped text is found.
const NoDeclarationMessage = "Could not parse function declaration"

// ParseError is the only error kind the extractor raises.
type ParseError struct {
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return e.Message
}

func inputTooLarge(size, limit int) *ParseError {
	return &ParseError{Message: fmt.Sprintf("input is %d bytes, limit is %d", size, limit)}
}
