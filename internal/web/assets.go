// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed all:assets
var embeddedFiles embed.FS

// GetFileSystem returns an http.FileSystem that serves the embedded terminal page.
func GetFileSystem() http.FileSystem {
	page, err := fs.Sub(embeddedFiles, "assets")
	if err != nil {
		panic(err)
	}
	return http.FS(page)
}
