////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

// Handles command-line version functionality

package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Change this value to set the version for this build
const currentVersion = "0.1.0"

func Version() string {
	out := fmt.Sprintf("convo v%s\n", currentVersion)
	if info, ok := debug.ReadBuildInfo(); ok {
		out += "\nDependencies:\n\n"
		for _, dep := range info.Deps {
			out += fmt.Sprintf("\t%s %s\n", dep.Path, dep.Version)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and dependency information for the convo binary",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(Version())
	},
}
