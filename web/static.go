package web

import (
	"embed"
	"io/fs"
)

//go:embed public
var content embed.FS

// StaticFS exposes the embedded console rooted at public/.
func StaticFS() fs.FS {
	sub, err := fs.Sub(content, "public")
	if err != nil {
		panic(err)
	}
	return sub
}
