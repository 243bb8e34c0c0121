package normalize

import "unicode/utf16"

const (
	fnvOffset32 uint32 = 2166136261
	fnvPrime32  uint32 = 16777619
	idModulus   uint32 = 2147483647
)

// Hash32 is the FNV-1a style product id over UTF-16 code units, reduced mod 2^31-1.
func Hash32(input string) uint32 {
	h := fnvOffset32
	for _, unit := range utf16.Encode([]rune(input)) {
		h ^= uint32(unit)
		h *= fnvPrime32
	}
	return h % idModulus
}

// ProductID hashes the url when present, the name otherwise.
func ProductID(url *string, name string) uint32 {
	if url != nil && *url != "" {
		return Hash32(*url)
	}
	return Hash32(name)
}
