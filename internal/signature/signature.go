// Package signature implements Cloudinary request signing.
//
// A request signature is the SHA-1 hex digest of the signable parameters,
// serialized as "key=value" pairs sorted by key and joined with "&", with
// the API secret appended. Parameters that are never signed (the file
// payload, the API key, the resource type, the cloud name) are dropped
// before serialization, as are parameters with empty values.
package signature

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
)

// unsignedParams are sent with upload requests but excluded from signing,
// per the upload API's contract.
var unsignedParams = map[string]bool{
	"file":          true,
	"api_key":       true,
	"resource_type": true,
	"cloud_name":    true,
}

// Sign computes the request signature for params using secret.
// The result is deterministic and independent of map iteration order.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if unsignedParams[k] || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	payload := strings.Join(pairs, "&") + secret
	sum := sha1.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}
