package webui

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed public
var files embed.FS

// Files returns the control panel assets. Debug builds read straight from
// the working tree so edits show up without recompiling.
func Files(build string) fs.FS {
	if build == "debug" {
		return os.DirFS("src/handler/webui")
	}
	return files
}
