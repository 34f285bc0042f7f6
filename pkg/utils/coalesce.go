// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package utils

// Coalesce returns the first value that is not the zero value of T, or the
// zero value when every value is zero.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// CoalesceString returns the first non-empty string.
func CoalesceString(values ...string) string {
	return Coalesce(values...)
}
