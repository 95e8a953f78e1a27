package config

import (
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLCodec reads and writes T as YAML.
type YAMLCodec[T any] struct{}

// Decode implements Codec. An empty file decodes to the zero value.
func (YAMLCodec[T]) Decode(r io.Reader) (T, error) {
	var v T
	if err := yaml.NewDecoder(r).Decode(&v); err != nil && !errors.Is(err, io.EOF) {
		return v, err
	}
	return v, nil
}

// Encode implements Codec.
func (YAMLCodec[T]) Encode(w io.Writer, v T) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(4)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// NewYAML creates a YAML-backed Config.
func NewYAML[T any](path string, opts ...Option[T]) (*Config[T], error) {
	return New[T](path, YAMLCodec[T]{}, opts...)
}
