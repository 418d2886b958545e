// Package web holds the page of the monitor.
package web

import (
	"embed"
	"io/fs"
	"log"
	"net/http"
	"path/filepath"
	"runtime"
)

//go:embed dist/*
var page embed.FS

// SourceDir is the directory the embedded page is built from. Passing it to
// Assets serves the page as it is being edited.
func SourceDir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		log.Panic("cannot locate the monitor page sources")
	}

	return filepath.Join(filepath.Dir(file), "dist")
}

// Assets returns the files of the monitor page. They are read from dir on
// every request, or from the binary when dir is empty.
func Assets(dir string) http.FileSystem {
	if dir != "" {
		log.Printf("monitor: serving page from %s", dir)
		return http.Dir(dir)
	}

	sub, err := fs.Sub(page, "dist")
	if err != nil {
		log.Panic(err)
	}

	return http.FS(sub)
}
