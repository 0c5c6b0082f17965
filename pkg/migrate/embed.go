package migrate

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed migrations/*.sql
var embedded embed.FS

// DefaultDir is where new migrations are authored; the same files are
// compiled into the binary.
const DefaultDir = "pkg/migrate/migrations"

// Embedded returns the migrations shipped inside the binary, rooted at the
// migrations directory.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Source picks the embedded set when dir is empty, otherwise the directory on
// disk.
func Source(dir string) fs.FS {
	if dir == "" {
		return Embedded()
	}
	return os.DirFS(dir)
}
