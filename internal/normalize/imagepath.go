package normalize

import (
	"net/url"
	"strings"
)

const (
	DefaultImageRoute    = "/images"
	DefaultDatasetPrefix = "data/images/"
	DefaultPlaceholder   = "/image.png"
)

// ImageMapper rewrites dataset image paths into public image URLs.
type ImageMapper struct {
	Route         string
	DatasetPrefix string
	Placeholder   string
}

func NewImageMapper(route, datasetPrefix, placeholder string) ImageMapper {
	if route == "" {
		route = DefaultImageRoute
	}
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return ImageMapper{
		Route:         "/" + strings.Trim(route, "/"),
		DatasetPrefix: datasetPrefix,
		Placeholder:   placeholder,
	}
}

func (m ImageMapper) Map(raw string) string {
	if raw == "" {
		return m.Placeholder
	}
	p := strings.ReplaceAll(raw, `\`, "/")
	p = strings.TrimPrefix(p, "/")
	if m.DatasetPrefix != "" {
		p = strings.TrimPrefix(p, m.DatasetPrefix)
	}
	return m.Route + "/" + EncodeURI(p)
}

// FileName turns a public image URL back into the name looked up in the image directory.
func (m ImageMapper) FileName(publicURL string) string {
	rel := strings.TrimPrefix(publicURL, m.Route+"/")
	if decoded, err := url.PathUnescape(rel); err == nil {
		return decoded
	}
	return rel
}

const uriUnreserved = "-_.!~*'();/?:@&=+$,#"

// EncodeURI escapes s the way JavaScript's encodeURI does.
func EncodeURI(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isURIChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isURIChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte(uriUnreserved, c) >= 0
}
