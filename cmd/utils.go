////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"

	"gitlab.com/elixxir/convo/chat"
)

// bindFlagHelper binds the key to a pflag.Flag used by Cobra and prints an
// error if one occurs.
func bindFlagHelper(key string, command *cobra.Command) {
	err := viper.BindPFlag(key, command.Flags().Lookup(key))
	if err != nil {
		jww.ERROR.Printf("viper.BindPFlag failed for %q: %+v", key, err)
	}
}

// bindPersistentFlagHelper is bindFlagHelper for persistent flags.
func bindPersistentFlagHelper(key string, command *cobra.Command) {
	err := viper.BindPFlag(key, command.PersistentFlags().Lookup(key))
	if err != nil {
		jww.ERROR.Printf("viper.BindPFlag failed for %q: %+v", key, err)
	}
}

// bindOnRun returns a PreRun that binds the command's own flags. Several
// subcommands share flag names, so binding has to wait until the command
// that runs is known.
func bindOnRun(keys ...string) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		for _, key := range keys {
			bindFlagHelper(key, cmd)
		}
	}
}

// requireFlag panics with a readable message when a string flag is empty.
func requireFlag(key string) string {
	value := viper.GetString(key)
	if value == "" {
		jww.FATAL.Panicf("--%s is required", key)
	}
	return value
}

func printMessage(ss *chat.Session, m chat.Message) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s %s", m.Timestamp.Format(time.Kitchen), m.ID,
		m.SenderID)
	if m.IsForwarded {
		fmt.Fprintf(&b, " (forwarded from %s)", m.ForwardedFrom)
	}
	b.WriteString(": ")
	if m.File != nil {
		fmt.Fprintf(&b, "📎 %s (%d bytes) ", m.File.Name, m.File.Size)
	}
	b.WriteString(m.Content)
	if m.IsEdited {
		b.WriteString(" (edited)")
	}
	if ss.IsSeen(m) {
		b.WriteString(" ✓✓")
	}
	for _, g := range chat.GroupReactions(m.Reactions) {
		fmt.Fprintf(&b, "\n    %s %d (%s)", g.Emoji, g.Count, g.ReactorNames)
	}
	fmt.Println(b.String())
}

func printConversation(ss *chat.Session, c chat.Conversation) {
	unread := ""
	if c.UnreadCount > 0 {
		unread = fmt.Sprintf(" [%d unread]", c.UnreadCount)
	}
	fmt.Printf("%s  %-9s %s%s\n    %s\n    %s: %s\n", c.ID, c.Kind, c.Name,
		unread, ss.ParticipantLabel(c),
		c.LastMessageTimestamp.Format(time.RFC822), c.LastMessagePreview)
}
