package codec

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// Encoder turns an arbitrary value into body bytes.
type Encoder interface {
	Encode(v any) ([]byte, error)
}

// Decoder fills v from body bytes.
type Decoder interface {
	Decode(data []byte, v any) error
}

// Codec is both an Encoder and a Decoder.
type Codec interface {
	Encoder
	Decoder
}

// JSONCodec encodes and decodes JSON.
type JSONCodec struct {
	// DisallowUnknownFields rejects objects with fields the target lacks.
	DisallowUnknownFields bool
	// UseNumber decodes numbers into json.Number instead of float64.
	UseNumber bool
}

// JSON is the default codec.
var JSON Codec = JSONCodec{}

// Encode implements Encoder.
func (c JSONCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decode implements Decoder.
func (c JSONCodec) Decode(data []byte, v any) error {
	if !c.DisallowUnknownFields && !c.UseNumber {
		return json.Unmarshal(data, v)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if c.DisallowUnknownFields {
		dec.DisallowUnknownFields()
	}
	if c.UseNumber {
		dec.UseNumber()
	}
	return dec.Decode(v)
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc func(v any) ([]byte, error)

// Encode implements Encoder.
func (f EncoderFunc) Encode(v any) ([]byte, error) { return f(v) }

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(data []byte, v any) error

// Decode implements Decoder.
func (f DecoderFunc) Decode(data []byte, v any) error { return f(data, v) }

// Decode decodes data into a new value of type T.
func Decode[T any](dec Decoder, data []byte) (T, error) {
	var out T
	if err := dec.Decode(data, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
