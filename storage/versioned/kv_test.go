////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

package versioned

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/elixxir/ekv"
)

// Getting a key that was never set fails with a not-exists error.
func TestKV_Get_NotExist(t *testing.T) {
	vkv := NewKV(ekv.MakeMemstore())
	result, err := vkv.Get("missing", 0)
	require.Error(t, err)
	require.False(t, vkv.Exists(err))
	require.Nil(t, result)
}

func TestKV_SetGet(t *testing.T) {
	vkv := NewKV(ekv.MakeMemstore())
	original := NewObject(1, []byte("state"))
	require.NoError(t, vkv.Set("snapshot", original))

	result, err := vkv.Get("snapshot", 1)
	require.NoError(t, err)
	require.Equal(t, original.Data, result.Data)
	require.Equal(t, original.Version, result.Version)
	require.True(t, original.Timestamp.Equal(result.Timestamp))

	// Versions are stored apart
	_, err = vkv.Get("snapshot", 0)
	require.False(t, vkv.Exists(err))
}

func TestKV_Delete(t *testing.T) {
	vkv := NewKV(ekv.MakeMemstore())
	require.NoError(t, vkv.Set("snapshot", NewObject(0, []byte("x"))))
	require.NoError(t, vkv.Delete("snapshot", 0))

	_, err := vkv.Get("snapshot", 0)
	require.False(t, vkv.Exists(err))
}

func TestKV_Prefix(t *testing.T) {
	vkv := NewKV(ekv.MakeMemstore())
	a := vkv.Prefix("convo")
	b := a.Prefix("alice")
	require.Equal(t, "convo/", a.GetPrefix())
	require.Equal(t, "convo/alice/", b.GetPrefix())
	require.Equal(t, "convo/alice/key_2", b.makeKey("key", 2))

	require.NoError(t, b.Set("key", NewObject(0, []byte("b"))))
	_, err := a.Get("key", 0)
	require.False(t, a.Exists(err))

	result, err := b.Get("key", 0)
	require.NoError(t, err)
	require.Equal(t, []byte("b"), result.Data)
	require.True(t, vkv.IsMemStore())
}
