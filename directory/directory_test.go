////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

package directory

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNewStatic(t *testing.T) {
	seen := time.Date(2023, 3, 1, 9, 0, 0, 0, time.UTC)
	dir, err := NewStatic(
		Participant{ID: "user-1", DisplayName: "Ada", Presence: Online},
		Participant{ID: "user-2", DisplayName: "Grace", Presence: Offline,
			LastSeen: &seen},
		Participant{ID: "user-3"},
	)
	require.NoError(t, err)

	p, ok := dir.Get("user-2")
	require.True(t, ok)
	require.Equal(t, "Grace", p.DisplayName)
	require.Equal(t, seen, *p.LastSeen)

	_, ok = dir.Get("user-9")
	require.False(t, ok)

	require.Equal(t, "Ada", dir.DisplayName("user-1"))
	require.Equal(t, "user-3", dir.DisplayName("user-3"))
	require.Equal(t, "user-9", dir.DisplayName("user-9"))

	list := dir.List()
	require.Len(t, list, 3)
	require.Equal(t, "user-1", list[0].ID)
	require.Equal(t, "user-3", list[2].ID)
}

func TestNewStatic_Invalid(t *testing.T) {
	_, err := NewStatic(Participant{ID: "a"}, Participant{ID: "a"})
	require.True(t, errors.Is(err, DuplicateParticipantErr))

	_, err = NewStatic(Participant{ID: " "})
	require.True(t, errors.Is(err, InvalidParticipantErr))

	now := time.Now()
	_, err = NewStatic(Participant{ID: "a", Presence: Busy, LastSeen: &now})
	require.True(t, errors.Is(err, InvalidParticipantErr))
}

func TestParsePresence(t *testing.T) {
	tests := map[string]Presence{
		"":        Offline,
		"offline": Offline,
		"Online":  Online,
		" away ":  Away,
		"BUSY":    Busy,
	}
	for in, expected := range tests {
		p, err := ParsePresence(in)
		require.NoError(t, err, in)
		require.Equal(t, expected, p, in)
		if in != "" {
			require.Equal(t, expected.String(), p.String())
		}
	}

	_, err := ParsePresence("dnd")
	require.Error(t, err)
	require.Equal(t, "Unknown presence 9", Presence(9).String())
}
