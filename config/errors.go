// SPDX-License-Identifier: MIT

package config

import "errors"

var (
	// ErrRead wraps I/O failures while reading a configuration file.
	ErrRead = errors.New("config: read failed")

	// ErrParse wraps YAML decoding failures.
	ErrParse = errors.New("config: parse failed")

	// ErrInvalid indicates a value outside its documented range.
	ErrInvalid = errors.New("config: invalid value")
)
