package extract

import (
	"path/filepath"
	"strings"
)

// Kind is the upload format, decided once from the file name.
type Kind int

const (
	KindUnsupported Kind = iota
	KindCSV
	KindZIP
)

// KindOf classifies a file name by its (case-insensitive) extension.
func KindOf(filename string) Kind {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return KindCSV
	case ".zip":
		return KindZIP
	default:
		return KindUnsupported
	}
}

func (k Kind) String() string {
	switch k {
	case KindCSV:
		return "csv"
	case KindZIP:
		return "zip"
	default:
		return "unsupported"
	}
}
