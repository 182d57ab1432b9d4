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

// AddParticipants adds participants to a group or broadcast. Only
// administrators may do so. Newcomers see the existing history as unread.
func (ss *Session) AddParticipants(conversationID string, participantIDs []string) (Conversation, error) {
	jww.TRACE.Printf("[CHAT] AddParticipants(%s, %s, %v)", ss.me,
		conversationID, participantIDs)
	if len(participantIDs) == 0 {
		return Conversation{}, errors.Wrap(InvalidArgumentErr,
			"no participants to add")
	}

	s := ss.s
	s.mux.Lock()
	defer s.mux.Unlock()

	stored, err := ss.administered(conversationID)
	if err != nil {
		return Conversation{}, err
	}
	members, err := ss.validateInvitees(participantIDs)
	if err != nil {
		return Conversation{}, err
	}

	cr := stored.clone()
	for _, p := range members {
		if cr.HasParticipant(p) {
			continue
		}
		cr.ParticipantIDs = append(cr.ParticipantIDs, p)
		cr.Unread[p] = s.unreadFromReceipts(cr.ID, p)
	}

	if err = s.commit(&Update{Conversations: []*ConversationRecord{cr}}); err != nil {
		return Conversation{}, err
	}
	return s.view(cr, ss.me), nil
}

// RemoveParticipant removes a participant from a group or broadcast. Only
// administrators may remove others; anyone may remove themselves. The last
// administrator cannot be removed while other participants remain.
func (ss *Session) RemoveParticipant(conversationID, participantID string) error {
	jww.TRACE.Printf("[CHAT] RemoveParticipant(%s, %s, %s)", ss.me,
		conversationID, participantID)

	s := ss.s
	s.mux.Lock()
	defer s.mux.Unlock()

	var stored *ConversationRecord
	var err error
	if participantID == ss.me {
		stored, err = s.conversationFor(ss.me, conversationID)
		if err == nil && stored.Kind == Direct {
			err = errors.Wrapf(InvalidArgumentErr,
				"cannot leave direct conversation %s", conversationID)
		}
	} else {
		stored, err = ss.administered(conversationID)
	}
	if err != nil {
		return err
	}

	if !stored.HasParticipant(participantID) {
		return errors.Wrapf(NotFoundErr, "participant %s in conversation %s",
			participantID, conversationID)
	}
	if len(stored.ParticipantIDs) == 1 {
		return errors.Wrapf(InvalidArgumentErr,
			"%s is the last participant of %s", participantID, conversationID)
	}
	if stored.IsAdmin(participantID) && len(stored.AdminIDs) == 1 {
		return errors.Wrapf(InvalidArgumentErr,
			"%s is the last administrator of %s", participantID, conversationID)
	}

	cr := stored.clone()
	cr.ParticipantIDs = remove(cr.ParticipantIDs, participantID)
	cr.AdminIDs = remove(cr.AdminIDs, participantID)
	delete(cr.Unread, participantID)

	if err = s.commit(&Update{Conversations: []*ConversationRecord{cr}}); err != nil {
		return err
	}
	if s.open[participantID] == conversationID {
		delete(s.open, participantID)
	}
	return nil
}

// Leave removes the acting participant from a group or broadcast.
func (ss *Session) Leave(conversationID string) error {
	return ss.RemoveParticipant(conversationID, ss.me)
}

// PromoteAdmin grants administrator rights to an existing participant.
func (ss *Session) PromoteAdmin(conversationID, participantID string) error {
	jww.TRACE.Printf("[CHAT] PromoteAdmin(%s, %s, %s)", ss.me,
		conversationID, participantID)

	s := ss.s
	s.mux.Lock()
	defer s.mux.Unlock()

	stored, err := ss.administered(conversationID)
	if err != nil {
		return err
	}
	if !stored.HasParticipant(participantID) {
		return errors.Wrapf(NotFoundErr, "participant %s in conversation %s",
			participantID, conversationID)
	}
	if stored.IsAdmin(participantID) {
		return nil
	}

	cr := stored.clone()
	cr.AdminIDs = append(cr.AdminIDs, participantID)
	return s.commit(&Update{Conversations: []*ConversationRecord{cr}})
}

// UpdateInfo renames a group or broadcast and replaces its description.
func (ss *Session) UpdateInfo(conversationID, name, description string) (Conversation, error) {
	jww.TRACE.Printf("[CHAT] UpdateInfo(%s, %s, %q)", ss.me, conversationID,
		name)
	name = strings.TrimSpace(name)
	if name == "" {
		return Conversation{}, errors.Wrap(InvalidArgumentErr,
			"name cannot be empty")
	}

	s := ss.s
	s.mux.Lock()
	defer s.mux.Unlock()

	stored, err := ss.administered(conversationID)
	if err != nil {
		return Conversation{}, err
	}

	cr := stored.clone()
	cr.Name = name
	cr.Description = strings.TrimSpace(description)
	if err = s.commit(&Update{Conversations: []*ConversationRecord{cr}}); err != nil {
		return Conversation{}, err
	}
	return s.view(cr, ss.me), nil
}

// administered returns the conversation if it is a group or broadcast the
// acting participant administers. The caller must hold the lock.
func (ss *Session) administered(conversationID string) (*ConversationRecord, error) {
	cr, err := ss.s.conversationFor(ss.me, conversationID)
	if err != nil {
		return nil, err
	}
	if cr.Kind == Direct {
		return nil, errors.Wrapf(InvalidArgumentErr,
			"direct conversation %s has no administrators", conversationID)
	}
	if !cr.IsAdmin(ss.me) {
		return nil, errors.Wrapf(ForbiddenErr,
			"%s does not administer %s", ss.me, conversationID)
	}
	return cr, nil
}
