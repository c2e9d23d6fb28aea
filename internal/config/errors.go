package config

const (
	// Database errors
	ErrInitializeDatabaseFmt = "Failed to initialize database: %v"

	// Config errors
	ErrWriteConfigContentFmt = "Failed to write config content: %v"

	// Submission errors shown on the re-rendered form
	ErrUnsupportedFileExtension = "unsupported file extension"
	ErrArticleNotCreated        = "article was not created"
	ErrFormNotParsed            = "form could not be read"
	ErrDateNotParsed            = "publication date must look like dd.mm.yyyy"
)
