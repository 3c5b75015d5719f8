package util

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Fingerprint returns a stable hex digest of content, used to build cache
// keys from call arguments.
//
//   - []byte and string are hashed as is
//   - anything else is hashed in its JSON form, or its %#v form when it cannot
//     be marshaled
func Fingerprint(content any) string {
	var data []byte

	switch v := content.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		var err error
		data, err = json.Marshal(content)
		if err != nil {
			data = fmt.Appendf(nil, "%#v", content)
		}
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
