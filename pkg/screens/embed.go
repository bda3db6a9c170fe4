package screens

import (
	"embed"
	"io/fs"
)

//go:embed defaults/*.yaml
var embeddedScreens embed.FS

// EmbeddedFS returns the bundled screen files. Callers may pass this
// filesystem to LoadFS to use the default catalogue.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedScreens, "defaults")
	if err != nil {
		// the embed directive guarantees the subpath exists
		panic(err)
	}
	return sub
}
