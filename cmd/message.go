////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

// The message subcommands send, change and inspect messages

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"

	"gitlab.com/elixxir/convo/chat"
)

var sendCmd = &cobra.Command{
	Use:    "send",
	Short:  "Send a text message to a conversation",
	Args:   cobra.NoArgs,
	PreRun: bindOnRun(conversationFlag, messageFlag),
	Run: func(cmd *cobra.Command, args []string) {
		ss := initSession()
		m, err := ss.Send(requireFlag(conversationFlag),
			viper.GetString(messageFlag))
		if err != nil {
			jww.FATAL.Panicf("Failed to send: %+v", err)
		}
		printMessage(ss, m)
	},
}

var sendFileCmd = &cobra.Command{
	Use:    "send-file",
	Short:  "Send a file message with an optional caption",
	Args:   cobra.NoArgs,
	PreRun: bindOnRun(conversationFlag, messageFlag, fileNameFlag, fileSizeFlag),
	Run: func(cmd *cobra.Command, args []string) {
		ss := initSession()
		m, err := ss.SendFile(requireFlag(conversationFlag),
			viper.GetString(messageFlag), chat.Attachment{
				Name: requireFlag(fileNameFlag),
				Size: viper.GetInt64(fileSizeFlag),
			})
		if err != nil {
			jww.FATAL.Panicf("Failed to send file: %+v", err)
		}
		printMessage(ss, m)
	},
}

var editCmd = &cobra.Command{
	Use:    "edit",
	Short:  "Replace the content of one of your messages",
	Args:   cobra.NoArgs,
	PreRun: bindOnRun(messageIdFlag, messageFlag),
	Run: func(cmd *cobra.Command, args []string) {
		ss := initSession()
		m, err := ss.Edit(requireFlag(messageIdFlag),
			viper.GetString(messageFlag))
		if err != nil {
			jww.FATAL.Panicf("Failed to edit: %+v", err)
		}
		printMessage(ss, m)
	},
}

var forwardCmd = &cobra.Command{
	Use:    "forward",
	Short:  "Forward a message into another conversation",
	Args:   cobra.NoArgs,
	PreRun: bindOnRun(messageIdFlag, forwardToFlag),
	Run: func(cmd *cobra.Command, args []string) {
		ss := initSession()
		m, err := ss.Forward(requireFlag(messageIdFlag),
			requireFlag(forwardToFlag))
		if err != nil {
			jww.FATAL.Panicf("Failed to forward: %+v", err)
		}
		printMessage(ss, m)
	},
}

var deleteCmd = &cobra.Command{
	Use:    "delete",
	Short:  "Delete one of your messages",
	Args:   cobra.NoArgs,
	PreRun: bindOnRun(messageIdFlag),
	Run: func(cmd *cobra.Command, args []string) {
		ss := initSession()
		id := requireFlag(messageIdFlag)
		if err := ss.Delete(id); err != nil {
			jww.FATAL.Panicf("Failed to delete: %+v", err)
		}
		fmt.Printf("Deleted %s\n", id)
	},
}

var reactCmd = &cobra.Command{
	Use:    "react",
	Short:  "React to a message with a single emoji",
	Args:   cobra.NoArgs,
	PreRun: bindOnRun(messageIdFlag, emojiFlag),
	Run: func(cmd *cobra.Command, args []string) {
		ss := initSession()
		id := requireFlag(messageIdFlag)
		if err := ss.AddReaction(id, requireFlag(emojiFlag)); err != nil {
			jww.FATAL.Panicf("Failed to react: %+v", err)
		}
		printReactedMessage(ss, id)
	},
}

var unreactCmd = &cobra.Command{
	Use:    "unreact",
	Short:  "Remove your emoji reaction from a message",
	Args:   cobra.NoArgs,
	PreRun: bindOnRun(messageIdFlag, emojiFlag),
	Run: func(cmd *cobra.Command, args []string) {
		ss := initSession()
		id := requireFlag(messageIdFlag)
		if err := ss.RemoveReaction(id, requireFlag(emojiFlag)); err != nil {
			jww.FATAL.Panicf("Failed to remove reaction: %+v", err)
		}
		printReactedMessage(ss, id)
	},
}

var historyCmd = &cobra.Command{
	Use:    "history",
	Short:  "Print the messages of a conversation, oldest first",
	Args:   cobra.NoArgs,
	PreRun: bindOnRun(conversationFlag),
	Run: func(cmd *cobra.Command, args []string) {
		ss := initSession()
		msgs, err := ss.ListByConversation(requireFlag(conversationFlag))
		if err != nil {
			jww.FATAL.Panicf("Failed to list messages: %+v", err)
		}
		for _, m := range msgs {
			printMessage(ss, m)
		}
	},
}

func printReactedMessage(ss *chat.Session, id string) {
	m, err := ss.Message(id)
	if err != nil {
		jww.FATAL.Panicf("%+v", err)
	}
	printMessage(ss, m)
}

func init() {
	sendCmd.Flags().StringP(conversationFlag, "c", "",
		"ID of the conversation to send to")
	sendCmd.Flags().StringP(messageFlag, "m", "", "Message to send")
	rootCmd.AddCommand(sendCmd)

	sendFileCmd.Flags().StringP(conversationFlag, "c", "",
		"ID of the conversation to send to")
	sendFileCmd.Flags().StringP(messageFlag, "m", "", "Optional caption")
	sendFileCmd.Flags().String(fileNameFlag, "", "Name of the file")
	sendFileCmd.Flags().Int64(fileSizeFlag, 0, "Size of the file in bytes")
	rootCmd.AddCommand(sendFileCmd)

	editCmd.Flags().String(messageIdFlag, "", "ID of the message to edit")
	editCmd.Flags().StringP(messageFlag, "m", "", "New content")
	rootCmd.AddCommand(editCmd)

	forwardCmd.Flags().String(messageIdFlag, "",
		"ID of the message to forward")
	forwardCmd.Flags().String(forwardToFlag, "",
		"ID of the conversation to forward to")
	rootCmd.AddCommand(forwardCmd)

	deleteCmd.Flags().String(messageIdFlag, "", "ID of the message to delete")
	rootCmd.AddCommand(deleteCmd)

	reactCmd.Flags().String(messageIdFlag, "", "ID of the message")
	reactCmd.Flags().StringP(emojiFlag, "e", "", "Emoji to react with")
	rootCmd.AddCommand(reactCmd)

	unreactCmd.Flags().String(messageIdFlag, "", "ID of the message")
	unreactCmd.Flags().StringP(emojiFlag, "e", "", "Emoji to remove")
	rootCmd.AddCommand(unreactCmd)

	historyCmd.Flags().StringP(conversationFlag, "c", "",
		"ID of the conversation")
	rootCmd.AddCommand(historyCmd)
}
