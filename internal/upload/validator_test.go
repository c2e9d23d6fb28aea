package upload

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorClassify(t *testing.T) {
	dir := t.TempDir()
	v, err := NewValidator(dir, nil)
	require.NoError(t, err)

	testCases := []struct {
		name         string
		mediaType    string
		filename     string
		wantAccepted bool
		wantFilename string
	}{
		{name: "JPEG", mediaType: "image/jpeg", filename: "cat.jpg", wantAccepted: true, wantFilename: "cat.jpg"},
		{name: "PNG", mediaType: "image/png", filename: "dog.png", wantAccepted: true, wantFilename: "dog.png"},
		{name: "Upper case type", mediaType: "IMAGE/PNG", filename: "a.png", wantAccepted: true, wantFilename: "a.png"},
		{name: "Type with parameters", mediaType: "image/jpeg; charset=binary", filename: "b.jpg", wantAccepted: true, wantFilename: "b.jpg"},
		{name: "GIF", mediaType: "image/gif", filename: "anim.gif"},
		{name: "Octet stream", mediaType: "application/octet-stream", filename: "x.png"},
		{name: "Empty type", mediaType: "", filename: "x.png"},
		{name: "Windows path stripped", mediaType: "image/png", filename: `C:\Users\me\pic.png`, wantAccepted: true, wantFilename: "pic.png"},
		{name: "Traversal stripped", mediaType: "image/png", filename: "../../etc/passwd.png", wantAccepted: true, wantFilename: "passwd.png"},
		{name: "No file name", mediaType: "image/png", filename: ""},
		{name: "Dot dot", mediaType: "image/png", filename: ".."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := v.Classify(tc.mediaType, tc.filename)
			assert.Equal(t, tc.wantAccepted, d.Accepted)
			if !tc.wantAccepted {
				assert.Empty(t, d.Path, "rejected files get no destination")
				assert.Empty(t, d.Filename)
				return
			}
			assert.Equal(t, tc.wantFilename, d.Filename)
			assert.Equal(t, filepath.Join(v.Dir(), tc.wantFilename), d.Path)
			assert.True(t, filepath.IsAbs(d.Path))
		})
	}
}

func TestNewValidator(t *testing.T) {
	t.Run("Relative dir becomes absolute", func(t *testing.T) {
		v, err := NewValidator("upload/img", nil)
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(v.Dir()))
	})

	t.Run("Custom allow-list", func(t *testing.T) {
		v, err := NewValidator(t.TempDir(), []string{" image/webp "})
		require.NoError(t, err)
		assert.True(t, v.Classify("image/webp", "a.webp").Accepted)
		assert.False(t, v.Classify("image/png", "a.png").Accepted)
	})
}
