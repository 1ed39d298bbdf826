// assets/embed.go
//
// Embedded resources shipped inside the binary:
//   - words.txt:    default word list ("word,category" per line).
//   - templates/:   html/template pages (layout + one file per page).
//   - static/:      stylesheet served under /static/.

package assets

import (
	"embed"
	"io/fs"
)

//go:embed words.txt templates/*.html static/*
var FS embed.FS

// Templates returns the sub-filesystem holding the page templates.
func Templates() fs.FS {
	sub, err := fs.Sub(FS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Static returns the sub-filesystem served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(FS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// WordList opens the embedded default word list.
func WordList() (fs.File, error) {
	return FS.Open("words.txt")
}
