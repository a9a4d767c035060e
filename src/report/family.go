package report

import (
	"path"
	"regexp"
	"strings"
)

// hashRe matches a dash-delimited content-hash run of 8+ hex digits.
// Ember fingerprints are 32-hex md5; 8 is the floor so shorter build
// hashes are caught too.
var hashRe = regexp.MustCompile(`-[0-9a-fA-F]{8,}`)

// FamilyKey normalizes an output file path to its asset family: the
// base name with the first content-hash segment stripped from the name
// part and the full extension chain kept. Files that differ only in
// their hash collapse to the same key, so the same logical bundle can
// be compared across scenarios.
//
//	assets/vendor-abc12345ef.js     -> vendor.js
//	assets/vendor-def67890ab.js.gz  -> vendor.js.gz
//	chunk.143-abc12345.js           -> chunk.143.js
//
// Only dash-delimited hex runs are treated as hashes; dot-separated
// segments are always kept as part of the name.
func FamilyKey(p string) string {
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))

	dot := strings.Index(base, ".")
	name, ext := base, ""
	if dot >= 0 {
		name, ext = base[:dot], base[dot:]
	}

	if loc := hashRe.FindStringIndex(name); loc != nil {
		name = name[:loc[0]] + name[loc[1]:]
	} else if loc := hashRe.FindStringIndex(ext); loc != nil {
		// Hash landed after a dotted name segment ("chunk.143-abc12345.js").
		ext = ext[:loc[0]] + ext[loc[1]:]
	}

	return name + ext
}
