// assets/embed.go
//
// Built-in dictionaries, used when DICT_DIR is missing or holds no loadable lists.

package assets

import (
	"embed"
	"io/fs"
)

//go:embed dict
var files embed.FS

// Dictionaries returns the embedded dictionary directory as its own root,
// ready for words.LoadFS.
func Dictionaries() fs.FS {
	sub, err := fs.Sub(files, "dict")
	if err != nil {
		// "dict" is fixed at compile time by the embed directive.
		panic(err)
	}
	return sub
}
