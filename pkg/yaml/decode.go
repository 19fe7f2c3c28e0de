package yaml

import (
	"errors"
	"io"

	"github.com/goccy/go-yaml"
)

type (
	// MapSlice is an ordered mapping, as produced by an ordered [Decoder].
	MapSlice = yaml.MapSlice
	// MapItem is a single entry of a [MapSlice].
	MapItem = yaml.MapItem
)

// DecoderOpt configures a [Decoder].
type DecoderOpt func(*decoderOptions)

type decoderOptions struct {
	ordered bool
}

// WithOrderedMaps decodes every mapping into a [MapSlice], so that the
// source order of keys is kept.
func WithOrderedMaps() DecoderOpt {
	return func(o *decoderOptions) {
		o.ordered = true
	}
}

type Decoder struct {
	d *yaml.Decoder
}

// NewDecoder creates a [Decoder] reading from r. Duplicate mapping keys are
// always allowed.
func NewDecoder(r io.Reader, opts ...DecoderOpt) *Decoder {
	options := &decoderOptions{}
	for _, opt := range opts {
		opt(options)
	}

	decOpts := []yaml.DecodeOption{yaml.AllowDuplicateMapKey()}
	if options.ordered {
		decOpts = append(decOpts, yaml.UseOrderedMap())
	}

	return &Decoder{
		d: yaml.NewDecoder(r, decOpts...),
	}
}

// Decode decodes the next document into v. It returns [io.EOF] when the
// input holds no document. Syntax errors are returned as [*Error].
func (d *Decoder) Decode(v any) error {
	err := d.d.Decode(v)
	if err == nil {
		return nil
	}

	if errors.Is(err, io.EOF) {
		return io.EOF
	}

	var yamlErr yaml.Error
	if errors.As(err, &yamlErr) {
		return NewError(errors.New(yamlErr.GetMessage()), WithToken(yamlErr.GetToken()))
	}

	//nolint:wrapcheck // Return the original error if it's not a [yaml.Error].
	return err
}

// ToJSON converts YAML source into JSON.
func ToJSON(data []byte) ([]byte, error) {
	b, err := yaml.YAMLToJSON(data)
	if err != nil {
		var yamlErr yaml.Error
		if errors.As(err, &yamlErr) {
			return nil, NewError(errors.New(yamlErr.GetMessage()), WithToken(yamlErr.GetToken()))
		}

		return nil, err //nolint:wrapcheck // Return the original error.
	}

	return b, nil
}
