////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

package chat

import (
	"strings"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
)

const (
	groupCreatedPreview     = "Group created"
	broadcastCreatedPreview = "Broadcast created"
)

// CreateGroup creates a group conversation administered by the acting
// participant, who is added implicitly and must not be listed.
func (ss *Session) CreateGroup(name string, participantIDs []string,
	description string) (Conversation, error) {
	jww.TRACE.Printf("[CHAT] CreateGroup(%s, %q, %v)", ss.me, name,
		participantIDs)
	return ss.create(Group, name, participantIDs, description,
		groupCreatedPreview)
}

// CreateBroadcast creates a broadcast conversation. Only its administrators,
// initially the acting participant, can post to it.
func (ss *Session) CreateBroadcast(name string, participantIDs []string,
	description string) (Conversation, error) {
	jww.TRACE.Printf("[CHAT] CreateBroadcast(%s, %q, %v)", ss.me, name,
		participantIDs)
	return ss.create(Broadcast, name, participantIDs, description,
		broadcastCreatedPreview)
}

// create validates the request and stores a new group or broadcast.
func (ss *Session) create(kind ConversationKind, name string,
	participantIDs []string, description, preview string) (Conversation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Conversation{}, errors.Wrapf(InvalidArgumentErr,
			"a %s needs a name", kind)
	}
	if len(participantIDs) == 0 {
		return Conversation{}, errors.Wrapf(InvalidArgumentErr,
			"a %s needs at least one participant", kind)
	}

	s := ss.s
	s.mux.Lock()
	defer s.mux.Unlock()

	members, err := ss.validateInvitees(participantIDs)
	if err != nil {
		return Conversation{}, err
	}

	cr := &ConversationRecord{
		ID:                   s.newConversationID(),
		Kind:                 kind,
		Name:                 name,
		Description:          strings.TrimSpace(description),
		CreatorID:            ss.me,
		ParticipantIDs:       append([]string{ss.me}, members...),
		AdminIDs:             []string{ss.me},
		LastMessagePreview:   preview,
		LastMessageTimestamp: s.now(),
		Unread:               make(map[string]int),
	}

	if err = s.commit(&Update{Conversations: []*ConversationRecord{cr}}); err != nil {
		return Conversation{}, err
	}

	jww.INFO.Printf("[CHAT] %s created %s %s with %d participants",
		ss.me, kind, cr.ID, len(cr.ParticipantIDs))
	return s.view(cr, ss.me), nil
}

// CreateDirect returns the direct conversation between the acting participant
// and the peer, creating it if it does not exist yet.
func (ss *Session) CreateDirect(peerID string) (Conversation, error) {
	jww.TRACE.Printf("[CHAT] CreateDirect(%s, %s)", ss.me, peerID)
	if peerID == ss.me {
		return Conversation{}, errors.Wrap(InvalidArgumentErr,
			"a direct conversation needs a participant other than yourself")
	}

	s := ss.s
	s.mux.Lock()
	defer s.mux.Unlock()

	if _, exists := s.dir.Get(peerID); !exists {
		return Conversation{}, errors.Wrapf(NotFoundErr, "participant %s", peerID)
	}

	for _, cr := range s.conversations {
		if cr.Kind == Direct && len(cr.ParticipantIDs) == 2 &&
			cr.HasParticipant(ss.me) && cr.HasParticipant(peerID) {
			return s.view(cr, ss.me), nil
		}
	}

	cr := &ConversationRecord{
		ID:                   s.newConversationID(),
		Kind:                 Direct,
		ParticipantIDs:       []string{ss.me, peerID},
		AdminIDs:             []string{},
		LastMessageTimestamp: s.now(),
		Unread:               make(map[string]int),
	}
	if err := s.commit(&Update{Conversations: []*ConversationRecord{cr}}); err != nil {
		return Conversation{}, err
	}
	return s.view(cr, ss.me), nil
}

// validateInvitees checks a participant list for a new or existing
// conversation: no self, only known IDs. Duplicates are collapsed and the
// original order kept. The caller must hold the lock.
func (ss *Session) validateInvitees(participantIDs []string) ([]string, error) {
	seen := make(map[string]struct{}, len(participantIDs))
	out := make([]string, 0, len(participantIDs))
	for _, id := range participantIDs {
		if id == ss.me {
			return nil, errors.Wrap(InvalidArgumentErr,
				"the acting participant is added implicitly and cannot be listed")
		}
		if _, exists := ss.s.dir.Get(id); !exists {
			return nil, errors.Wrapf(NotFoundErr, "participant %s", id)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
