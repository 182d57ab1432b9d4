////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

// The conversation subcommands list, create and read conversations

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"

	"gitlab.com/elixxir/convo/chat"
)

var listCmd = &cobra.Command{
	Use:    "list",
	Short:  "List your conversations, newest first",
	Args:   cobra.NoArgs,
	PreRun: bindOnRun(filterFlag, searchFlag),
	Run: func(cmd *cobra.Command, args []string) {
		filter, err := chat.ParseFilter(viper.GetString(filterFlag))
		if err != nil {
			jww.FATAL.Panicf("%+v", err)
		}
		ss := initSession()
		for _, c := range ss.ListConversations(filter,
			viper.GetString(searchFlag)) {
			printConversation(ss, c)
		}
	},
}

var readCmd = &cobra.Command{
	Use:    "read",
	Short:  "Mark every message of a conversation as read",
	Args:   cobra.NoArgs,
	PreRun: bindOnRun(conversationFlag),
	Run: func(cmd *cobra.Command, args []string) {
		ss := initSession()
		id := requireFlag(conversationFlag)
		if err := ss.MarkAsRead(id); err != nil {
			jww.FATAL.Panicf("Failed to mark as read: %+v", err)
		}
		fmt.Printf("Marked %s as read, %d unread in total\n", id,
			ss.TotalUnread())
	},
}

var unreadCmd = &cobra.Command{
	Use:    "unread",
	Short:  "Print your unread counters",
	Args:   cobra.NoArgs,
	PreRun: bindOnRun(reconcileFlag),
	Run: func(cmd *cobra.Command, args []string) {
		ss := initSession()
		reconcile := viper.GetBool(reconcileFlag)
		for _, c := range ss.ListConversations(chat.FilterAll, "") {
			if reconcile {
				if err := ss.Reconcile(c.ID); err != nil {
					jww.FATAL.Panicf("Failed to reconcile %s: %+v", c.ID, err)
				}
				var err error
				if c, err = ss.Conversation(c.ID); err != nil {
					jww.FATAL.Panicf("%+v", err)
				}
			}
			if c.UnreadCount > 0 {
				fmt.Printf("%s\t%d\n", c.ID, c.UnreadCount)
			}
		}
		fmt.Printf("total\t%d\n", ss.TotalUnread())
	},
}

var groupCmd = &cobra.Command{
	Use:    "group",
	Short:  "Create a group conversation administered by you",
	Args:   cobra.NoArgs,
	PreRun: bindOnRun(nameFlag, descriptionFlag, participantsFlag),
	Run: func(cmd *cobra.Command, args []string) {
		ss := initSession()
		c, err := ss.CreateGroup(viper.GetString(nameFlag),
			viper.GetStringSlice(participantsFlag),
			viper.GetString(descriptionFlag))
		if err != nil {
			jww.FATAL.Panicf("Failed to create group: %+v", err)
		}
		printConversation(ss, c)
	},
}

var broadcastCmd = &cobra.Command{
	Use:    "broadcast",
	Short:  "Create a broadcast only you can post to",
	Args:   cobra.NoArgs,
	PreRun: bindOnRun(nameFlag, descriptionFlag, participantsFlag),
	Run: func(cmd *cobra.Command, args []string) {
		ss := initSession()
		c, err := ss.CreateBroadcast(viper.GetString(nameFlag),
			viper.GetStringSlice(participantsFlag),
			viper.GetString(descriptionFlag))
		if err != nil {
			jww.FATAL.Panicf("Failed to create broadcast: %+v", err)
		}
		printConversation(ss, c)
	},
}

var directCmd = &cobra.Command{
	Use:    "direct",
	Short:  "Open or create the direct conversation with a participant",
	Args:   cobra.NoArgs,
	PreRun: bindOnRun(withFlag),
	Run: func(cmd *cobra.Command, args []string) {
		ss := initSession()
		c, err := ss.CreateDirect(requireFlag(withFlag))
		if err != nil {
			jww.FATAL.Panicf("Failed to open direct conversation: %+v", err)
		}
		printConversation(ss, c)
	},
}

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "Manage the participants of a group or broadcast",
	Args:  cobra.NoArgs,
	PreRun: bindOnRun(conversationFlag, addFlag, removeFlag, promoteFlag,
		leaveFlag),
	Run: func(cmd *cobra.Command, args []string) {
		ss := initSession()
		id := requireFlag(conversationFlag)

		if add := viper.GetStringSlice(addFlag); len(add) > 0 {
			if _, err := ss.AddParticipants(id, add); err != nil {
				jww.FATAL.Panicf("Failed to add participants: %+v", err)
			}
		}
		if promote := viper.GetString(promoteFlag); promote != "" {
			if err := ss.PromoteAdmin(id, promote); err != nil {
				jww.FATAL.Panicf("Failed to promote %s: %+v", promote, err)
			}
		}
		if remove := viper.GetString(removeFlag); remove != "" {
			if err := ss.RemoveParticipant(id, remove); err != nil {
				jww.FATAL.Panicf("Failed to remove %s: %+v", remove, err)
			}
		}
		if viper.GetBool(leaveFlag) {
			if err := ss.Leave(id); err != nil {
				jww.FATAL.Panicf("Failed to leave: %+v", err)
			}
			fmt.Printf("Left %s\n", id)
			return
		}

		c, err := ss.Conversation(id)
		if err != nil {
			jww.FATAL.Panicf("%+v", err)
		}
		printConversation(ss, c)
	},
}

func init() {
	listCmd.Flags().StringP(filterFlag, "f", "all",
		"One of all, direct, group or broadcast")
	listCmd.Flags().StringP(searchFlag, "q", "",
		"Only list conversations whose name, description or preview "+
			"contain this text")
	rootCmd.AddCommand(listCmd)

	readCmd.Flags().StringP(conversationFlag, "c", "",
		"ID of the conversation")
	rootCmd.AddCommand(readCmd)

	unreadCmd.Flags().Bool(reconcileFlag, false,
		"Recompute the counters from read receipts first")
	rootCmd.AddCommand(unreadCmd)

	for _, c := range []*cobra.Command{groupCmd, broadcastCmd} {
		c.Flags().StringP(nameFlag, "n", "", "Name of the conversation")
		c.Flags().StringP(descriptionFlag, "d", "", "Optional description")
		c.Flags().StringSlice(participantsFlag, nil,
			"Comma separated IDs of the other participants")
		rootCmd.AddCommand(c)
	}

	directCmd.Flags().String(withFlag, "", "ID of the other participant")
	rootCmd.AddCommand(directCmd)

	membersCmd.Flags().StringP(conversationFlag, "c", "",
		"ID of the group or broadcast")
	membersCmd.Flags().StringSlice(addFlag, nil,
		"Comma separated IDs of participants to add")
	membersCmd.Flags().String(removeFlag, "", "ID of a participant to remove")
	membersCmd.Flags().String(promoteFlag, "",
		"ID of a participant to make administrator")
	membersCmd.Flags().Bool(leaveFlag, false, "Leave the conversation")
	rootCmd.AddCommand(membersCmd)
}
