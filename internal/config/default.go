// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package config

import (
	_ "embed"
	"fmt"
)

//go:embed default.yaml
var defaultCV []byte

// DefaultYAML returns the embedded default CV file.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultCV...)
}

// Default returns a fresh copy of the embedded default CV. It panics if the
// embedded file is invalid, which a test guards against.
func Default() *CV {
	cv, err := Parse(defaultCV)
	if err != nil {
		panic(fmt.Sprintf("embedded default CV is invalid: %v", err))
	}
	return cv
}
