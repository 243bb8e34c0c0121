package resolver

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"storefront/catalog/internal/imageindex"
)

var ErrImageNotFound = errors.New("image not found")

// Stage names the fallback step that located an image.
type Stage string

const (
	StageExact   Stage = "exact"
	StageVariant Stage = "variant"
	StagePrefix  Stage = "index-prefix"
	StageTokens  Stage = "index-tokens"
	StageDigits  Stage = "index-digits"
)

// variantExtensions are tried after the requested extension, in this order.
var variantExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".jpg.webp", ".jpeg.webp", ".png.webp"}

var (
	sizeSuffix = regexp.MustCompile(`(?i)-\d+x\d+$`)
	tokenSplit = regexp.MustCompile(`[^a-z0-9]+`)
	digitsRun  = regexp.MustCompile(`\d{5,}`)
)

// Image is a resolved image file.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
	Stage       Stage
}

type ImageResolver interface {
	Resolve(ctx context.Context, rel string) (*Image, error)
}

type imageResolver struct {
	root  string
	index *imageindex.Index
}

// NewImageResolver serves files under the index directory. The root is made absolute once.
func NewImageResolver(index *imageindex.Index) (ImageResolver, error) {
	root, err := filepath.Abs(index.Dir())
	if err != nil {
		return nil, err
	}
	return &imageResolver{
		root:  root,
		index: index,
	}, nil
}

func (r *imageResolver) Resolve(ctx context.Context, rel string) (*Image, error) {
	rel = strings.TrimPrefix(rel, "/")

	if img := r.tryRead(rel, StageExact); img != nil {
		return img, nil
	}

	ext := extName(rel)
	stem := strings.TrimSuffix(rel, ext)
	stemNoSize := sizeSuffix.ReplaceAllString(stem, "")

	for _, candidate := range variants(stem, stemNoSize, ext) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if img := r.tryRead(candidate, StageVariant); img != nil {
			return img, nil
		}
	}

	snap, err := r.index.Snapshot()
	if err != nil {
		log.Warnf("Image index unavailable for %s: %v", rel, err)
		return nil, ErrImageNotFound
	}

	name, stage := matchIndex(snap.Names(), baseName(stemNoSize))
	if name != "" {
		if img := r.tryRead(name, stage); img != nil {
			return img, nil
		}
	}

	return nil, ErrImageNotFound
}

func variants(stem, stemNoSize, ext string) []string {
	exts := append([]string{ext}, variantExtensions...)
	out := make([]string, 0, 2*len(exts))
	for _, e := range exts {
		out = append(out, stem+e, stemNoSize+e)
	}
	return out
}

// matchIndex looks the base name up in the sorted directory listing: by prefix,
// then by shared tokens, then, for names holding a long digit run, by substring.
func matchIndex(names []string, base string) (string, Stage) {
	if base == "" {
		return "", ""
	}

	for _, name := range names {
		if strings.HasPrefix(name, base) {
			return name, StagePrefix
		}
	}

	if want := tokens(base); len(want) > 0 {
		best, bestScore := "", 0
		for _, name := range names {
			have := tokenSet(name)
			score := 0
			for _, tok := range want {
				if _, ok := have[tok]; ok {
					score++
				}
			}
			if score > bestScore {
				best, bestScore = name, score
			}
		}
		if best != "" {
			return best, StageTokens
		}
	}

	if digitsRun.MatchString(base) {
		for _, name := range names {
			if strings.Contains(name, base) {
				return name, StageDigits
			}
		}
	}
	return "", ""
}

// tokens returns the lowercase alphanumeric tokens of s in order, duplicates included.
func tokens(s string) []string {
	var out []string
	for _, tok := range tokenSplit.Split(strings.ToLower(s), -1) {
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func tokenSet(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, tok := range tokens(s) {
		out[tok] = struct{}{}
	}
	return out
}

// contained joins rel to the root and reports false when the result escapes it.
func (r *imageResolver) contained(rel string) (string, bool) {
	full := filepath.Join(r.root, filepath.FromSlash(rel))
	if full == r.root || strings.HasPrefix(full, r.root+string(filepath.Separator)) {
		return full, true
	}
	return "", false
}

func (r *imageResolver) tryRead(rel string, stage Stage) *Image {
	full, ok := r.contained(rel)
	if !ok {
		log.Debugf("Refused image path outside the image root: %q", rel)
		return nil
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil
	}
	return &Image{
		Name:        rel,
		ContentType: ContentType(full),
		Data:        data,
		Stage:       stage,
	}
}

// ContentType maps a file extension to the served media type.
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// extName returns the extension of the last path element, ignoring a leading dot.
func extName(p string) string {
	base := p
	if i := strings.LastIndex(p, "/"); i >= 0 {
		base = p[i+1:]
	}
	i := strings.LastIndex(base, ".")
	if i <= 0 {
		return ""
	}
	return base[i:]
}

func baseName(p string) string {
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	return path.Base(p)
}
