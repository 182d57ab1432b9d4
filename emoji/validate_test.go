////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

package emoji

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateReaction(t *testing.T) {
	valid := []string{"👍", "😂", "🎉", "🙏", "😭", "🥰"}
	for _, r := range valid {
		require.NoError(t, ValidateReaction(r), "%q", r)
	}

	invalid := []string{"", "AA", "👍👍", "👍A", "ok 👍", "👍😘A"}
	for _, r := range invalid {
		require.Equal(t, InvalidReaction, ValidateReaction(r), "%q", r)
	}
}

func TestSupportedEmojis(t *testing.T) {
	require.NotEmpty(t, SupportedEmojis())
}
