package config

import "dario.cat/mergo"

// Merge fills the zero-value fields of dst from defaults. Fields already set
// in dst are kept, so a false bool or zero number can never be explicit.
func Merge[T any](dst *T, defaults T) error {
	return mergo.Merge(dst, defaults)
}
