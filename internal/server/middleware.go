package server

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/debemdeboas/typoteka/internal/cache"
	"github.com/debemdeboas/typoteka/internal/config"
	"github.com/debemdeboas/typoteka/internal/util"
)

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "same-origin")

		next.ServeHTTP(w, r)
	})
}

// cacheIt marks pages as uncacheable and lets browsers revalidate static files by ETag.
func cacheIt(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hash, ok := cache.GetStaticHash(r.URL.Path)
		if !ok {
			w.Header().Set(config.HCacheControl, "no-cache")
			next.ServeHTTP(w, r)
			return
		}

		etag := `"` + hash + `"`
		w.Header().Set(config.HCacheControl, "public, max-age=3600")
		w.Header().Set(config.HETag, etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// hashStatic records a content hash for every embedded static file.
func hashStatic(static fs.FS) error {
	return fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		content, err := fs.ReadFile(static, path)
		if err != nil {
			return fmt.Errorf("hashing %s: %w", path, err)
		}
		cache.SetStaticHash(config.StaticURLPath+path, util.ContentHash(content))
		return nil
	})
}
