////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

package directory

import (
	"strings"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
)

var (
	// DuplicateParticipantErr is returned when two participants share an ID.
	DuplicateParticipantErr = errors.New("the participant ID is already in use")

	// InvalidParticipantErr is returned when a participant fails the shape
	// checks done by NewStatic.
	InvalidParticipantErr = errors.New("the participant is not valid")
)

// Directory is the read-only view of participants consumed by the chat
// engine. Implementations may be refreshed externally but are never mutated
// through this interface.
type Directory interface {
	// Get returns the participant with the given ID.
	Get(id string) (Participant, bool)

	// DisplayName returns the display name of the participant, or the ID
	// itself when the participant is unknown or has no display name.
	DisplayName(id string) string

	// List returns every participant in registration order.
	List() []Participant
}

// Static is a Directory built once from a fixed list of participants.
type Static struct {
	byID  map[string]Participant
	order []string
}

// NewStatic builds a Static directory. IDs must be non-empty and unique and
// only offline participants may carry a last seen time.
func NewStatic(participants ...Participant) (*Static, error) {
	s := &Static{
		byID:  make(map[string]Participant, len(participants)),
		order: make([]string, 0, len(participants)),
	}

	for i, p := range participants {
		if strings.TrimSpace(p.ID) == "" {
			return nil, errors.Wrapf(InvalidParticipantErr,
				"participant %d has an empty ID", i)
		}
		if _, exists := s.byID[p.ID]; exists {
			return nil, errors.Wrapf(DuplicateParticipantErr, "%s", p.ID)
		}
		if p.LastSeen != nil && p.Presence != Offline {
			return nil, errors.Wrapf(InvalidParticipantErr,
				"%s has a last seen time while %s", p.ID, p.Presence)
		}
		s.byID[p.ID] = p
		s.order = append(s.order, p.ID)
	}

	jww.DEBUG.Printf("[DIR] Loaded %d participants", len(s.order))
	return s, nil
}

// Get returns the participant with the given ID.
func (s *Static) Get(id string) (Participant, bool) {
	p, exists := s.byID[id]
	return p, exists
}

// DisplayName returns the name shown for id.
func (s *Static) DisplayName(id string) string {
	if p, exists := s.byID[id]; exists && p.DisplayName != "" {
		return p.DisplayName
	}
	return id
}

// List returns every participant in the order they were registered.
func (s *Static) List() []Participant {
	out := make([]Participant, len(s.order))
	for i, id := range s.order {
		out[i] = s.byID[id]
	}
	return out
}
