package knowledge

import "path/filepath"

// FileExt is the extension of knowledge files.
const FileExt = ".ini"

// IsFileName reports whether name ends in FileExt, ignoring ASCII case, and
// has a base name before the extension. A bare ".ini" is rejected.
func IsFileName(name string) bool {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	return len(base) > len(ext) && EqualFold(ext, FileExt)
}
