////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// Sending "Hello" into chat-1 as user-1 appends it at the end of the history.
func TestSession_Send(t *testing.T) {
	env := newTestEnv(t, nil)
	me := env.session(t, "user-1")

	msg, err := me.Send("chat-1", "Hello")
	require.NoError(t, err)
	require.NotEmpty(t, msg.ID)
	require.Equal(t, TextKind, msg.Kind)
	require.Nil(t, msg.File)
	require.Empty(t, msg.ReadBy)

	msgs, err := me.ListByConversation("chat-1")
	require.NoError(t, err)
	last := msgs[len(msgs)-1]
	require.Equal(t, msg.ID, last.ID)
	require.Equal(t, "Hello", last.Content)
	require.Equal(t, "user-1", last.SenderID)
	require.False(t, last.IsEdited)
	require.False(t, last.IsForwarded)

	c, err := me.Conversation("chat-1")
	require.NoError(t, err)
	require.Equal(t, "Hello", c.LastMessagePreview)
	require.Equal(t, msg.Timestamp, c.LastMessageTimestamp)
	require.Zero(t, c.UnreadCount)
}

func TestSession_Send_Errors(t *testing.T) {
	env := newTestEnv(t, nil)
	me := env.session(t, "user-1")
	outsider := env.session(t, "user-5")

	_, err := me.Send("chat-1", "  ")
	require.True(t, errors.Is(err, InvalidArgumentErr))

	_, err = me.Send("chat-99", "Hello")
	require.True(t, errors.Is(err, NotFoundErr))

	_, err = outsider.Send("chat-1", "Hello")
	require.True(t, errors.Is(err, ForbiddenErr))

	// only administrators post to a broadcast
	_, err = env.session(t, "user-2").Send("chat-4", "reply all")
	require.True(t, errors.Is(err, ForbiddenErr))
	_, err = me.Send("chat-4", "Office closed Friday")
	require.NoError(t, err)
}

func TestSession_SendFile(t *testing.T) {
	env := newTestEnv(t, nil)
	me := env.session(t, "user-1")

	msg, err := me.SendFile("chat-2", "", Attachment{Name: "q3.pdf", Size: 2048})
	require.NoError(t, err)
	require.Equal(t, FileKind, msg.Kind)
	require.Equal(t, &Attachment{Name: "q3.pdf", Size: 2048}, msg.File)

	c, err := me.Conversation("chat-2")
	require.NoError(t, err)
	require.Equal(t, "📎 q3.pdf", c.LastMessagePreview)

	_, err = me.SendFile("chat-2", "", Attachment{Name: ""})
	require.True(t, errors.Is(err, InvalidArgumentErr))
	_, err = me.SendFile("chat-2", "", Attachment{Name: "a", Size: -1})
	require.True(t, errors.Is(err, InvalidArgumentErr))
}

// Editing changes the content in place and nothing else.
func TestSession_Edit(t *testing.T) {
	env := newTestEnv(t, nil)
	me := env.session(t, "user-1")

	msg, err := me.Send("chat-1", "Hello")
	require.NoError(t, err)

	edited, err := me.Edit(msg.ID, "Hello there")
	require.NoError(t, err)
	require.Equal(t, msg.ID, edited.ID)
	require.Equal(t, msg.ConversationID, edited.ConversationID)
	require.Equal(t, msg.SenderID, edited.SenderID)
	require.Equal(t, msg.Timestamp, edited.Timestamp)
	require.Equal(t, msg.Sequence, edited.Sequence)
	require.Equal(t, "Hello there", edited.Content)
	require.True(t, edited.IsEdited)

	got, err := me.Message(msg.ID)
	require.NoError(t, err)
	require.Equal(t, edited, got)

	// the latest message drives the preview
	c, err := me.Conversation("chat-1")
	require.NoError(t, err)
	require.Equal(t, "Hello there", c.LastMessagePreview)

	// editing an older message leaves the preview alone
	_, err = me.Send("chat-1", "newer")
	require.NoError(t, err)
	_, err = me.Edit(msg.ID, "Hello again")
	require.NoError(t, err)
	c, err = me.Conversation("chat-1")
	require.NoError(t, err)
	require.Equal(t, "newer", c.LastMessagePreview)
}

func TestSession_Edit_Errors(t *testing.T) {
	env := newTestEnv(t, nil)
	me := env.session(t, "user-1")
	peer := env.session(t, "user-2")

	msg, err := me.Send("chat-1", "Hello")
	require.NoError(t, err)

	_, err = peer.Edit(msg.ID, "hijacked")
	require.True(t, errors.Is(err, ForbiddenErr))

	_, err = me.Edit(msg.ID, "")
	require.True(t, errors.Is(err, InvalidArgumentErr))

	_, err = me.Edit("missing", "text")
	require.True(t, errors.Is(err, NotFoundErr))

	got, err := me.Message(msg.ID)
	require.NoError(t, err)
	require.Equal(t, "Hello", got.Content)
	require.False(t, got.IsEdited)
}

// Forwarding into chat-2 adds one message there and leaves chat-1 alone.
func TestSession_Forward(t *testing.T) {
	env := newTestEnv(t, nil)
	me := env.session(t, "user-1")

	msg, err := me.Send("chat-1", "Hello")
	require.NoError(t, err)
	before1, err := me.ListByConversation("chat-1")
	require.NoError(t, err)
	before2, err := me.ListByConversation("chat-2")
	require.NoError(t, err)

	fwd, err := me.Forward(msg.ID, "chat-2")
	require.NoError(t, err)
	require.NotEqual(t, msg.ID, fwd.ID)
	require.Equal(t, "chat-2", fwd.ConversationID)
	require.Equal(t, "user-1", fwd.SenderID)
	require.Equal(t, msg.Content, fwd.Content)
	require.True(t, fwd.IsForwarded)
	require.Equal(t, "Ada", fwd.ForwardedFrom)
	require.False(t, fwd.IsEdited)

	after1, err := me.ListByConversation("chat-1")
	require.NoError(t, err)
	after2, err := me.ListByConversation("chat-2")
	require.NoError(t, err)
	require.Len(t, after1, len(before1))
	require.Len(t, after2, len(before2)+1)
	require.Equal(t, before1, after1)

	c, err := me.Conversation("chat-2")
	require.NoError(t, err)
	require.Equal(t, "Forwarded: Hello", c.LastMessagePreview)
}

func TestSession_Forward_Provenance(t *testing.T) {
	env := newTestEnv(t, nil)
	me := env.session(t, "user-1")
	peer := env.session(t, "user-2")

	long := strings.Repeat("a", 40)
	msg, err := peer.Send("chat-1", long)
	require.NoError(t, err)

	fwd, err := me.Forward(msg.ID, "chat-2")
	require.NoError(t, err)
	require.Equal(t, "Grace", fwd.ForwardedFrom)

	c, err := me.Conversation("chat-2")
	require.NoError(t, err)
	require.Equal(t, "Forwarded: "+strings.Repeat("a", 30)+"...",
		c.LastMessagePreview)

	// forwarding a forward keeps the original author
	again, err := peer.Forward(fwd.ID, "chat-1")
	require.NoError(t, err)
	require.Equal(t, "Grace", again.ForwardedFrom)
	require.Equal(t, "user-2", again.SenderID)

	// the same conversation is a valid target
	dup, err := me.Forward(msg.ID, "chat-1")
	require.NoError(t, err)
	require.Equal(t, "chat-1", dup.ConversationID)

	// files keep their attachment
	file, err := me.SendFile("chat-1", "report", Attachment{Name: "r.xlsx", Size: 10})
	require.NoError(t, err)
	fwdFile, err := me.Forward(file.ID, "chat-2")
	require.NoError(t, err)
	require.Equal(t, FileKind, fwdFile.Kind)
	require.Equal(t, file.File, fwdFile.File)
	c, err = me.Conversation("chat-2")
	require.NoError(t, err)
	require.Equal(t, "Forwarded: 📎 r.xlsx", c.LastMessagePreview)
}

func TestSession_Forward_Errors(t *testing.T) {
	env := newTestEnv(t, nil)
	me := env.session(t, "user-1")
	peer := env.session(t, "user-2")

	msg, err := me.Send("chat-1", "Hello")
	require.NoError(t, err)

	_, err = me.Forward("missing", "chat-2")
	require.True(t, errors.Is(err, NotFoundErr))
	_, err = me.Forward(msg.ID, "chat-99")
	require.True(t, errors.Is(err, NotFoundErr))

	// user-2 is not in chat-3
	_, err = peer.Forward(msg.ID, "chat-3")
	require.True(t, errors.Is(err, ForbiddenErr))
	// nor can user-2 post into the broadcast
	_, err = peer.Forward(msg.ID, "chat-4")
	require.True(t, errors.Is(err, ForbiddenErr))
	// user-5 cannot see the source
	_, err = env.session(t, "user-5").Forward(msg.ID, "chat-2")
	require.True(t, errors.Is(err, ForbiddenErr))
}

func TestSession_Delete(t *testing.T) {
	env := newTestEnv(t, nil)
	me := env.session(t, "user-1")
	peer := env.session(t, "user-2")

	first, err := me.Send("chat-1", "first")
	require.NoError(t, err)
	second, err := me.Send("chat-1", "second")
	require.NoError(t, err)

	c, err := peer.Conversation("chat-1")
	require.NoError(t, err)
	require.Equal(t, 2, c.UnreadCount)

	require.True(t, errors.Is(peer.Delete(second.ID), ForbiddenErr))
	require.NoError(t, me.Delete(second.ID))

	msgs, err := me.ListByConversation("chat-1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, first.ID, msgs[0].ID)

	_, err = me.Message(second.ID)
	require.True(t, errors.Is(err, NotFoundErr))
	require.True(t, errors.Is(me.Delete(second.ID), NotFoundErr))
	require.True(t, errors.Is(me.Delete("never-existed"), NotFoundErr))

	// the preview falls back to the remaining message and the deleted one
	// no longer counts as unread
	c, err = peer.Conversation("chat-1")
	require.NoError(t, err)
	require.Equal(t, "first", c.LastMessagePreview)
	require.Equal(t, first.Timestamp, c.LastMessageTimestamp)
	require.Equal(t, 1, c.UnreadCount)

	require.NoError(t, me.Delete(first.ID))
	c, err = peer.Conversation("chat-1")
	require.NoError(t, err)
	require.Empty(t, c.LastMessagePreview)
	require.Zero(t, c.UnreadCount)
	requireUnreadConsistent(t, env.store, "chat-3")
}

// Deleted IDs are never handed out again.
func TestSession_Delete_IDNotReused(t *testing.T) {
	ids := []string{"dup", "dup", "fresh"}
	s, err := NewStore(newTestDirectory(t), nil, Params{
		NewID: func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		},
		Seed: newTestSeed(),
	})
	require.NoError(t, err)
	me, err := s.Session("user-1")
	require.NoError(t, err)

	msg, err := me.Send("chat-1", "one")
	require.NoError(t, err)
	require.Equal(t, "dup", msg.ID)
	require.NoError(t, me.Delete(msg.ID))

	next, err := me.Send("chat-1", "two")
	require.NoError(t, err)
	require.Equal(t, "fresh", next.ID)
}

func TestSession_ListByConversation_Ordering(t *testing.T) {
	env := newTestEnv(t, nil)
	me := env.session(t, "user-1")
	peer := env.session(t, "user-2")

	// a frozen clock produces equal timestamps; creation order decides
	env.clock.step = 0
	var sent []string
	for i := 0; i < 5; i++ {
		ss := me
		if i%2 == 1 {
			ss = peer
		}
		msg, err := ss.Send("chat-2", "msg")
		require.NoError(t, err)
		sent = append(sent, msg.ID)
	}
	env.clock.step = time.Second
	msg, err := me.Send("chat-2", "later")
	require.NoError(t, err)
	sent = append(sent, msg.ID)

	msgs, err := me.ListByConversation("chat-2")
	require.NoError(t, err)
	require.Len(t, msgs, len(sent))
	for i := range msgs {
		require.Equal(t, sent[i], msgs[i].ID)
		if i > 0 {
			require.False(t, msgs[i].Timestamp.Before(msgs[i-1].Timestamp))
		}
	}

	// results are copies
	msgs[0].Content = "mutated"
	again, err := me.ListByConversation("chat-2")
	require.NoError(t, err)
	require.Equal(t, "msg", again[0].Content)

	_, err = env.session(t, "user-5").ListByConversation("chat-2")
	require.True(t, errors.Is(err, ForbiddenErr))
	_, err = me.ListByConversation("chat-99")
	require.True(t, errors.Is(err, NotFoundErr))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 30))
	require.Equal(t, "ab...", truncate("abc", 2))
	require.Equal(t, "日本...", truncate("日本語", 2))
}
