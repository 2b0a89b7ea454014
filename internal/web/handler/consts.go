package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// ErrNilACDFatalLogMsg is used if app or deps pointer is nil.
	ErrNilACDFatalLogMsg = "app or deps is nil"

	// ErrorTemplate renders a failed console page.
	ErrorTemplate = "error"
)
