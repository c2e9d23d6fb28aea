// Package upload decides which submitted pictures are kept and writes them to storage.
package upload

import (
	"mime"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
)

var DefaultAllowedTypes = []string{"image/jpeg", "image/png"}

var uploadLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	uploadLogger = l
}

// Descriptor describes one incoming file part. It lives only while that part is read.
type Descriptor struct {
	MediaType string
	// Filename is the bare name the picture is stored under.
	Filename string
	// Path is the absolute destination, empty when the file was rejected.
	Path     string
	Accepted bool
}

// Validator classifies file parts against an allow-list of media types.
type Validator struct {
	dir     string
	allowed []string
}

// NewValidator resolves dir to an absolute path. An empty allow-list means DefaultAllowedTypes.
func NewValidator(dir string, allowed []string) (*Validator, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if len(allowed) == 0 {
		allowed = DefaultAllowedTypes
	}

	normalized := make([]string, 0, len(allowed))
	for _, t := range allowed {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(t)))
	}

	return &Validator{dir: abs, allowed: normalized}, nil
}

func (v *Validator) Dir() string {
	return v.dir
}

// Classify accepts the part when its declared media type is allowed and the
// filename is usable, and computes where its bytes go.
func (v *Validator) Classify(declaredType, filename string) Descriptor {
	mediaType := normalizeMediaType(declaredType)
	d := Descriptor{MediaType: mediaType}

	if !slices.Contains(v.allowed, mediaType) {
		uploadLogger.Debug().Str("media_type", mediaType).Str("filename", filename).Msg("File type rejected")
		return d
	}

	name := BaseName(filename)
	if name == "" {
		uploadLogger.Debug().Str("filename", filename).Msg("File name rejected")
		return d
	}

	d.Filename = name
	d.Path = filepath.Join(v.dir, name)
	d.Accepted = true
	return d
}

func normalizeMediaType(declared string) string {
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(declared))
	}
	return mediaType
}

// BaseName strips any directory part a browser may send along with the file name.
func BaseName(filename string) string {
	name := strings.ReplaceAll(filename, `\`, "/")
	name = path.Base(name)
	switch name {
	case ".", "/", "..":
		return ""
	}
	return strings.TrimSpace(name)
}
