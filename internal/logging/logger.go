package logging

import (
	"io"
	"log"
	"os"
)

// New returns a stdout logger prefixed with the component name.
func New(component string) *log.Logger {
	return NewTo(os.Stdout, component)
}

// NewTo is New with an explicit destination.
func NewTo(w io.Writer, component string) *log.Logger {
	prefix := component
	if prefix != "" {
		prefix = "[" + component + "] "
	}

	return log.New(w, prefix, log.LstdFlags|log.Lmicroseconds|log.LUTC)
}
