////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

package chat

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MessageKind is the discriminant of a [Message].
type MessageKind uint8

const (
	// TextKind is the default kind. The message only contains text.
	TextKind MessageKind = 1

	// FileKind denotes a message carrying an [Attachment]. Its content is an
	// optional caption.
	FileKind MessageKind = 2
)

// String returns a human-readable version of [MessageKind], used for debugging
// and logging. This function adheres to the [fmt.Stringer] interface.
func (mk MessageKind) String() string {
	switch mk {
	case TextKind:
		return "text"
	case FileKind:
		return "file"
	default:
		return "Unknown messageKind " + strconv.Itoa(int(mk))
	}
}

// ParseMessageKind returns the kind named by s. An empty string is TextKind.
func ParseMessageKind(s string) (MessageKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return TextKind, nil
	case "file":
		return FileKind, nil
	}
	return 0, errors.Wrapf(InvalidArgumentErr, "unknown message kind %q", s)
}

// ConversationKind is the discriminant of a conversation.
type ConversationKind uint8

const (
	// Direct is a conversation between exactly two participants.
	Direct ConversationKind = 1

	// Group is a named conversation with administrators.
	Group ConversationKind = 2

	// Broadcast is a one-directional fan-out from its administrators to every
	// other participant.
	Broadcast ConversationKind = 3
)

// String returns a human-readable version of [ConversationKind], used for
// debugging and logging. This function adheres to the [fmt.Stringer]
// interface.
func (ck ConversationKind) String() string {
	switch ck {
	case Direct:
		return "direct"
	case Group:
		return "group"
	case Broadcast:
		return "broadcast"
	default:
		return "Unknown conversationKind " + strconv.Itoa(int(ck))
	}
}

// ParseConversationKind returns the kind named by s.
func ParseConversationKind(s string) (ConversationKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "direct":
		return Direct, nil
	case "group":
		return Group, nil
	case "broadcast":
		return Broadcast, nil
	}
	return 0, errors.Wrapf(InvalidArgumentErr, "unknown conversation kind %q", s)
}

// Filter selects conversations in [Session.ListConversations].
type Filter uint8

const (
	FilterAll Filter = iota
	FilterDirect
	FilterGroup
	FilterBroadcast
)

// String returns the name of the filter.
func (f Filter) String() string {
	switch f {
	case FilterAll:
		return "all"
	case FilterDirect:
		return Direct.String()
	case FilterGroup:
		return Group.String()
	case FilterBroadcast:
		return Broadcast.String()
	default:
		return "Unknown filter " + strconv.Itoa(int(f))
	}
}

// ParseFilter returns the filter named by s. An empty string is FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "direct":
		return FilterDirect, nil
	case "group":
		return FilterGroup, nil
	case "broadcast":
		return FilterBroadcast, nil
	}
	return FilterAll, errors.Wrapf(InvalidArgumentErr, "unknown filter %q", s)
}

// matches reports whether a conversation of the given kind passes the filter.
func (f Filter) matches(kind ConversationKind) bool {
	switch f {
	case FilterDirect:
		return kind == Direct
	case FilterGroup:
		return kind == Group
	case FilterBroadcast:
		return kind == Broadcast
	default:
		return true
	}
}
