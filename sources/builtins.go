package sources

import (
	"net/http"
	"time"
)

type BuiltInSourceType = string

const (
	InlineSourceType BuiltInSourceType = "inline"
	Base64SourceType BuiltInSourceType = "base64"
	FileSourceType   BuiltInSourceType = "file"
	HTTPSourceType   BuiltInSourceType = "http"
)

// RegisterBuiltins registers all built-in sources by default or only the
// specific ones if keys are provided. http sources use timeout per request;
// zero means no timeout.
func RegisterBuiltins(r *Registry, timeout time.Duration, sources ...BuiltInSourceType) {
	if len(sources) == 0 {
		sources = []BuiltInSourceType{InlineSourceType, Base64SourceType, FileSourceType, HTTPSourceType}
	}

	for _, key := range sources {
		switch key {
		case InlineSourceType:
			RegisterInline(r)
		case Base64SourceType:
			RegisterBase64(r)
		case FileSourceType:
			RegisterFile(r)
		case HTTPSourceType:
			RegisterHTTP(r, &http.Client{Timeout: timeout})
		}
	}
}
