package theme

import "github.com/rs/zerolog"

var themeLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	themeLogger = l
}
