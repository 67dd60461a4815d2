package clientcache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Key identifies a cached client. Equality is structural over all fields.
type Key struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
}

// id is a collision-safe string form used for singleflight, so the secret
// key never appears in clear in any string the cache hands around.
func (k Key) id() string {
	h := sha256.New()
	for _, part := range []string{k.Endpoint, k.AccessKey, k.SecretKey, k.Region} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
