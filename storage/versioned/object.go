////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

package versioned

import (
	"encoding/json"
	"fmt"
	"time"

	"gitlab.com/xx_network/primitives/netTime"
)

// Object is used by KV to keep track of versioning and time of storage.
type Object struct {
	// Format version of Data
	Version uint64

	// Set when this object is written
	Timestamp time.Time

	// Serialized version of original object
	Data []byte
}

// NewObject wraps data at the given version, stamped with the current time.
func NewObject(version uint64, data []byte) *Object {
	return &Object{
		Version:   version,
		Timestamp: netTime.Now(),
		Data:      data,
	}
}

// Unmarshal deserializes an Object from a byte slice. It's used to make
// these storable in a KeyValue.
func (v *Object) Unmarshal(data []byte) error {
	return json.Unmarshal(data, v)
}

// Marshal serializes an Object into a byte slice. It's used to make these
// storable in a KeyValue.
func (v *Object) Marshal() []byte {
	d, err := json.Marshal(v)
	// Not being able to marshal this simple object means something is really
	// wrong
	if err != nil {
		panic(fmt.Sprintf("Could not marshal: %+v", v))
	}
	return d
}
