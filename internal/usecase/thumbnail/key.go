package thumbnail

import "strings"

// DeriveKey maps a source key to its thumbnail key: the source prefix is
// replaced by the destination prefix, a key without the source prefix gets
// the destination prefix prepended as is.
func DeriveKey(sourceKey, sourcePrefix, destPrefix string) string {
	return destPrefix + strings.TrimPrefix(sourceKey, sourcePrefix)
}
