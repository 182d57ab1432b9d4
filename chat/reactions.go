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

	"gitlab.com/elixxir/convo/emoji"
)

// AddReaction attaches the emoji to the message on behalf of the acting
// participant. Adding a pair that is already present is a successful no-op;
// it never toggles the reaction off.
func (ss *Session) AddReaction(messageID, reaction string) error {
	jww.TRACE.Printf("[CHAT] AddReaction(%s, %s, %s)", ss.me, messageID,
		reaction)
	if err := emoji.ValidateReaction(reaction); err != nil {
		return errors.Wrapf(InvalidArgumentErr, "%q: %s", reaction, err)
	}

	s := ss.s
	s.mux.Lock()
	defer s.mux.Unlock()

	stored, _, err := s.messageFor(ss.me, messageID)
	if err != nil {
		return err
	}
	if indexOfReaction(stored.Reactions, ss.me, reaction) != -1 {
		return nil
	}

	m := stored.clone()
	m.Reactions = append(m.Reactions, Reaction{
		Emoji:       reaction,
		ReactorID:   ss.me,
		ReactorName: s.dir.DisplayName(ss.me),
	})
	return s.commit(&Update{Messages: []*Message{m}})
}

// RemoveReaction removes the acting participant's emoji from the message.
// Removing a reaction that is not present is a successful no-op.
func (ss *Session) RemoveReaction(messageID, reaction string) error {
	jww.TRACE.Printf("[CHAT] RemoveReaction(%s, %s, %s)", ss.me, messageID,
		reaction)

	s := ss.s
	s.mux.Lock()
	defer s.mux.Unlock()

	stored, _, err := s.messageFor(ss.me, messageID)
	if err != nil {
		return err
	}
	i := indexOfReaction(stored.Reactions, ss.me, reaction)
	if i == -1 {
		return nil
	}

	m := stored.clone()
	m.Reactions = append(m.Reactions[:i], m.Reactions[i+1:]...)
	return s.commit(&Update{Messages: []*Message{m}})
}

// indexOfReaction returns the position of the (reactor, emoji) pair or -1.
func indexOfReaction(reactions []Reaction, reactorID, reaction string) int {
	for i, r := range reactions {
		if r.ReactorID == reactorID && r.Emoji == reaction {
			return i
		}
	}
	return -1
}

// ReactionGroup summarises every reaction using the same emoji.
type ReactionGroup struct {
	Emoji      string
	Count      int
	ReactorIDs []string

	// ReactorNames is the comma separated list of reactor display names.
	ReactorNames string
}

// GroupReactions groups a reaction sequence by emoji. Groups appear in the
// order their emoji first occurs and reactors keep their sequence order.
func GroupReactions(reactions []Reaction) []ReactionGroup {
	var groups []ReactionGroup
	index := make(map[string]int)
	names := make(map[string][]string)

	for _, r := range reactions {
		i, exists := index[r.Emoji]
		if !exists {
			i = len(groups)
			index[r.Emoji] = i
			groups = append(groups, ReactionGroup{Emoji: r.Emoji})
		}
		groups[i].Count++
		groups[i].ReactorIDs = append(groups[i].ReactorIDs, r.ReactorID)
		names[r.Emoji] = append(names[r.Emoji], r.ReactorName)
	}

	for i := range groups {
		groups[i].ReactorNames = strings.Join(names[groups[i].Emoji], ", ")
	}
	return groups
}
