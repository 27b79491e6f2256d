package http

import (
	"io/fs"
	"net/http"
)

// mediaFS hides directories, so /media/ never lists stored files.
type mediaFS struct {
	http.FileSystem
}

func (m mediaFS) Open(name string) (http.File, error) {
	f, err := m.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}

	return f, nil
}

func newMediaHandler(dir string) http.Handler {
	files := http.StripPrefix("/media/", http.FileServer(mediaFS{http.Dir(dir)}))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		files.ServeHTTP(w, r)
	})
}
