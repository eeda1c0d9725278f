package assistant

import (
	"io"

	"github.com/samber/mo"
)

// Upload is the optional file part of a request. Content is read once.
type Upload struct {
	Filename string
	Content  io.Reader
}

// Question is one request: the text plus an optional upload.
type Question struct {
	Text   string
	Upload mo.Option[Upload]
}
