package catalog

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newCollator returns a root-locale collator. Collators are not safe for
// concurrent use, so every sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und)
}
