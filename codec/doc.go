// Package codec provides the body encoders and decoders used by the
// request pipeline. JSON, backed by goccy/go-json, is the default.
package codec
