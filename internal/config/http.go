package config

const (
	HCType        = "Content-Type"
	HETag         = "ETag"
	HCacheControl = "Cache-Control"

	CTypeCSS       = "text/css"
	CTypeHTML      = "text/html; charset=utf-8"
	CTypeMultipart = "multipart/form-data"
)

const (
	HTTPErrMethodNotAllowed = "Method not allowed"
)
