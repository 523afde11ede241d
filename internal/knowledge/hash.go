package knowledge

// Default bucket counts. Tables never grow, so these bound the chain lengths
// a lookup has to walk: the section table only ever holds the few recognized
// intents, each entity table fans out across many more buckets.
const (
	DefaultSectionTableSize uint32 = 4
	DefaultEntityTableSize  uint32 = 256
)

const hashSeed uint32 = 5381

// Hash maps text to a bucket in a table of the given size.
// It is the djb2 string hash (h*33 + c) computed over ASCII-lowercased bytes,
// so strings that differ only in case land in the same bucket.
func Hash(text string, size uint32) uint32 {
	h := hashSeed
	for i := 0; i < len(text); i++ {
		h = h*33 + uint32(lower(text[i]))
	}
	return h % size
}

// lower folds an ASCII upper-case letter to lower case and leaves every
// other byte alone.
func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// EqualFold reports whether a and b are equal under ASCII case folding.
func EqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lower(a[i]) != lower(b[i]) {
			return false
		}
	}
	return true
}
