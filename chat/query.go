////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

package chat

import (
	"sort"
	"strings"
)

// BroadcastRecipientsLabel stands in for the participant list of a
// broadcast, whose recipients do not reply in the same thread.
const BroadcastRecipientsLabel = "All Recipients"

// ListConversations returns the conversations the acting participant belongs
// to that pass the filter and contain search, case-insensitively, in their
// name, description or preview. The newest conversation comes first.
func (ss *Session) ListConversations(filter Filter, search string) []Conversation {
	s := ss.s
	s.mux.RLock()
	defer s.mux.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]Conversation, 0, len(s.conversations))
	for _, cr := range s.conversations {
		if !cr.HasParticipant(ss.me) || !filter.matches(cr.Kind) {
			continue
		}
		c := s.view(cr, ss.me)
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.Name), needle) &&
			!strings.Contains(strings.ToLower(c.Description), needle) &&
			!strings.Contains(strings.ToLower(c.LastMessagePreview), needle) {
			continue
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastMessageTimestamp.Equal(out[j].LastMessageTimestamp) {
			return out[i].LastMessageTimestamp.After(out[j].LastMessageTimestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Conversation returns a single conversation as seen by the acting
// participant.
func (ss *Session) Conversation(conversationID string) (Conversation, error) {
	s := ss.s
	s.mux.RLock()
	defer s.mux.RUnlock()

	cr, err := s.conversationFor(ss.me, conversationID)
	if err != nil {
		return Conversation{}, err
	}
	return s.view(cr, ss.me), nil
}

// TotalUnread sums the acting participant's unread counters over every
// conversation they belong to.
func (ss *Session) TotalUnread() int {
	s := ss.s
	s.mux.RLock()
	defer s.mux.RUnlock()

	total := 0
	for _, cr := range s.conversations {
		if cr.HasParticipant(ss.me) {
			total += cr.Unread[ss.me]
		}
	}
	return total
}

// ParticipantLabel is the participant line shown for a conversation:
// BroadcastRecipientsLabel for broadcasts, otherwise the display names of the
// participants.
func (ss *Session) ParticipantLabel(c Conversation) string {
	if c.Kind == Broadcast {
		return BroadcastRecipientsLabel
	}
	names := make([]string, len(c.ParticipantIDs))
	for i, id := range c.ParticipantIDs {
		names[i] = ss.s.dir.DisplayName(id)
	}
	return strings.Join(names, ", ")
}

// view builds the conversation as seen by viewer. Direct conversations
// without a name are named after the other participant. The caller must hold
// the lock.
func (s *Store) view(cr *ConversationRecord, viewer string) Conversation {
	c := Conversation{
		ID:                   cr.ID,
		Kind:                 cr.Kind,
		Name:                 cr.Name,
		Description:          cr.Description,
		CreatorID:            cr.CreatorID,
		ParticipantIDs:       sortedCopy(cr.ParticipantIDs),
		AdminIDs:             sortedCopy(cr.AdminIDs),
		LastMessagePreview:   cr.LastMessagePreview,
		LastMessageTimestamp: cr.LastMessageTimestamp,
		UnreadCount:          cr.Unread[viewer],
	}
	if c.Kind == Direct && c.Name == "" {
		for _, p := range cr.ParticipantIDs {
			if p != viewer {
				c.Name = s.dir.DisplayName(p)
				break
			}
		}
	}
	return c
}
