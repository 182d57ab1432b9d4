////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

package chat

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func conversationIDs(cs []Conversation) []string {
	ids := make([]string, len(cs))
	for i := range cs {
		ids[i] = cs[i].ID
	}
	return ids
}

func TestSession_ListConversations(t *testing.T) {
	env := newTestEnv(t, nil)
	me := env.session(t, "user-1")

	// newest first
	require.Equal(t, []string{"chat-4", "chat-3", "chat-2", "chat-1"},
		conversationIDs(me.ListConversations(FilterAll, "")))

	_, err := me.Send("chat-1", "Lunch?")
	require.NoError(t, err)
	require.Equal(t, []string{"chat-1", "chat-4", "chat-3", "chat-2"},
		conversationIDs(me.ListConversations(FilterAll, "")))

	require.Equal(t, []string{"chat-1"},
		conversationIDs(me.ListConversations(FilterDirect, "")))
	require.Equal(t, []string{"chat-3", "chat-2"},
		conversationIDs(me.ListConversations(FilterGroup, "")))
	require.Equal(t, []string{"chat-4"},
		conversationIDs(me.ListConversations(FilterBroadcast, "")))

	// user-4 only belongs to chat-3
	require.Equal(t, []string{"chat-3"}, conversationIDs(
		env.session(t, "user-4").ListConversations(FilterAll, "")))
	require.Empty(t, env.session(t, "user-6").ListConversations(FilterAll, ""))
}

func TestSession_ListConversations_Search(t *testing.T) {
	env := newTestEnv(t, nil)
	me := env.session(t, "user-1")

	tests := map[string][]string{
		"platform":  {"chat-2"},
		"TOOLING":   {"chat-2"},
		"payslips":  {"chat-3"},
		"grace":     {"chat-1"},
		"no-match":  {},
		"  announc": {"chat-4"},
	}
	for search, expected := range tests {
		got := conversationIDs(me.ListConversations(FilterAll, search))
		require.Equal(t, expected, got, "search %q", search)
	}

	require.Empty(t, me.ListConversations(FilterDirect, "payroll"))
}

func TestSession_Conversation_DirectName(t *testing.T) {
	env := newTestEnv(t, nil)

	c, err := env.session(t, "user-1").Conversation("chat-1")
	require.NoError(t, err)
	require.Equal(t, "Grace", c.Name)

	c, err = env.session(t, "user-2").Conversation("chat-1")
	require.NoError(t, err)
	require.Equal(t, "Ada", c.Name)

	_, err = env.session(t, "user-3").Conversation("chat-1")
	require.True(t, errors.Is(err, ForbiddenErr))
	_, err = env.session(t, "user-3").Conversation("chat-99")
	require.True(t, errors.Is(err, NotFoundErr))
}

func TestSession_TotalUnread(t *testing.T) {
	env := newTestEnv(t, nil)
	me := env.session(t, "user-1")
	grace := env.session(t, "user-2")

	require.Equal(t, 5, me.TotalUnread())
	require.Zero(t, grace.TotalUnread())

	_, err := me.Send("chat-1", "one")
	require.NoError(t, err)
	_, err = me.Send("chat-2", "two")
	require.NoError(t, err)
	_, err = me.Send("chat-4", "three")
	require.NoError(t, err)

	require.Equal(t, 5, me.TotalUnread())
	require.Equal(t, 3, grace.TotalUnread())

	sum := 0
	for _, c := range grace.ListConversations(FilterAll, "") {
		sum += c.UnreadCount
	}
	require.Equal(t, sum, grace.TotalUnread())
}

func TestSession_ParticipantLabel(t *testing.T) {
	env := newTestEnv(t, nil)
	me := env.session(t, "user-1")

	c, err := me.Conversation("chat-2")
	require.NoError(t, err)
	require.Equal(t, "Ada, Grace, Linus", me.ParticipantLabel(c))

	c, err = me.Conversation("chat-4")
	require.NoError(t, err)
	require.Equal(t, BroadcastRecipientsLabel, me.ParticipantLabel(c))
}
