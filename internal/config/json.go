package config

import (
	"encoding/json"
	"io"
)

// jsonIndent keeps JSON config files readable and diff-friendly.
const jsonIndent = "    "

// Document is a free-form JSON object.
type Document = map[string]any

// JSONCodec reads and writes T as indented JSON.
type JSONCodec[T any] struct{}

// Decode implements Codec.
func (JSONCodec[T]) Decode(r io.Reader) (T, error) {
	var v T
	err := json.NewDecoder(r).Decode(&v)
	return v, err
}

// Encode implements Codec.
func (JSONCodec[T]) Encode(w io.Writer, v T) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", jsonIndent)
	return enc.Encode(v)
}

// NewJSON creates a JSON-backed Config.
//
//	type Settings struct{ Tabs []string }
//	cfg, err := config.NewJSON[Settings](path)
//	err = cfg.Update(func(s *Settings) error {
//	    s.Tabs = append(s.Tabs, root)
//	    return nil
//	})
func NewJSON[T any](path string, opts ...Option[T]) (*Config[T], error) {
	return New[T](path, JSONCodec[T]{}, opts...)
}

// NewJSONDocument creates a Config holding a free-form JSON object.
func NewJSONDocument(path string, opts ...Option[Document]) (*Config[Document], error) {
	return NewJSON[Document](path, opts...)
}
