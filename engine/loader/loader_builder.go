package loader

import "io/fs"

// LoaderBuilderOption is a functional option for configuring a Loader.
type LoaderBuilderOption func(*loader)

// WithFS sets the file system texture paths are resolved against.
//
// Parameters:
//   - fsys: the file system, e.g. os.DirFS("assets") or an embed.FS
//
// Returns:
//   - LoaderBuilderOption: option function to apply
func WithFS(fsys fs.FS) LoaderBuilderOption {
	return func(l *loader) {
		if fsys != nil {
			l.fsys = fsys
		}
	}
}

// WithWorkers sets the maximum number of concurrent texture decodes.
// Values < 1 are ignored.
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n >= 1 {
			l.workers = n
		}
	}
}
