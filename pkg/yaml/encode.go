package yaml

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// Encoder writes YAML documents. Struct fields use their yaml tag, or their
// json tag when no yaml tag is present.
type Encoder struct {
	e *yaml.Encoder
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		e: yaml.NewEncoder(w, yaml.Indent(2), yaml.IndentSequence(true)),
	}
}

func (e *Encoder) Encode(v any) error {
	err := e.e.Encode(v)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	return nil
}

func (e *Encoder) Close() error {
	return e.e.Close() //nolint:wrapcheck // Return the original error.
}
