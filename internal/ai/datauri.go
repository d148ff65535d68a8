package ai

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedImage = errors.New("malformed image data")

// ParseDataURI decodes "data:<mime>;base64,<payload>".
func ParseDataURI(s string) (*InlineData, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, fmt.Errorf("%w: expected data:<mime>;base64,<payload>", ErrMalformedImage)
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing payload separator", ErrMalformedImage)
	}
	mime, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return nil, fmt.Errorf("%w: only base64 data URIs are supported", ErrMalformedImage)
	}
	mime = strings.TrimSpace(mime)
	if mime == "" || !strings.Contains(mime, "/") {
		return nil, fmt.Errorf("%w: invalid mime type %q", ErrMalformedImage, mime)
	}
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedImage)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImage, err)
	}
	return &InlineData{MIMEType: mime, Data: data}, nil
}

// DataURI is the inverse of ParseDataURI.
func (d *InlineData) DataURI() string {
	return "data:" + d.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(d.Data)
}

func (d *InlineData) Base64() string {
	return base64.StdEncoding.EncodeToString(d.Data)
}
