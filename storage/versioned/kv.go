////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

// Package versioned wraps an ekv.KeyValue so every stored value carries a
// format version and the time it was written.
package versioned

import (
	"fmt"

	jww "github.com/spf13/jwalterweatherman"
	"gitlab.com/elixxir/ekv"
)

// PrefixSeparator separates the components of a prefixed key.
const PrefixSeparator = "/"

type root struct {
	data ekv.KeyValue
}

// KV stores versioned data under an optional key prefix.
type KV struct {
	r      *root
	prefix string
}

// NewKV creates a versioned key/value store backed by something implementing
// ekv.KeyValue.
func NewKV(data ekv.KeyValue) *KV {
	return &KV{r: &root{data: data}}
}

// Get loads the object stored under key at the given version. Callers should
// check the returned error with Exists to tell a missing key from a failure.
func (v *KV) Get(key string, version uint64) (*Object, error) {
	key = v.makeKey(key, version)
	jww.TRACE.Printf("[KV] get %p with key %v", v.r.data, key)
	result := &Object{}
	if err := v.r.data.Get(key, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Set upserts the object. The key is stored with the object's version so
// differing formats never overwrite each other.
func (v *KV) Set(key string, object *Object) error {
	key = v.makeKey(key, object.Version)
	jww.TRACE.Printf("[KV] set %p with key %v", v.r.data, key)
	return v.r.data.Set(key, object)
}

// Delete removes the object stored under key at the given version.
func (v *KV) Delete(key string, version uint64) error {
	key = v.makeKey(key, version)
	jww.TRACE.Printf("[KV] delete %p with key %v", v.r.data, key)
	return v.r.data.Delete(key)
}

// GetPrefix returns the prefix of the KV.
func (v *KV) GetPrefix() string {
	return v.prefix
}

// Prefix returns a new KV sharing the same backend whose keys are nested
// under prefix.
func (v *KV) Prefix(prefix string) *KV {
	return &KV{
		r:      v.r,
		prefix: v.prefix + prefix + PrefixSeparator,
	}
}

// IsMemStore reports whether the backend only lives in memory.
func (v *KV) IsMemStore() bool {
	_, success := v.r.data.(*ekv.Memstore)
	return success
}

// Exists returns false if the error indicates the element doesn't exist.
func (v *KV) Exists(err error) bool {
	return ekv.Exists(err)
}

func (v *KV) makeKey(key string, version uint64) string {
	return fmt.Sprintf("%s%s_%d", v.prefix, key, version)
}
