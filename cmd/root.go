////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

// Package cmd initializes the CLI and config parsers as well as the logger.
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"
	"gitlab.com/elixxir/ekv"

	"gitlab.com/elixxir/convo/chat"
	"gitlab.com/elixxir/convo/chat/storage"
	"gitlab.com/elixxir/convo/seed"
	"gitlab.com/elixxir/convo/storage/snapshot"
	"gitlab.com/elixxir/convo/storage/versioned"
)

// profiler is set while CPU profiling is enabled.
var profiler interface{ Stop() }

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen once
// to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "convo",
	Short: "Runs the convo conversation engine against a local session",
	Args:  cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLog(viper.GetUint(logLevelFlag), viper.GetString(logFlag))

		if profileOut := viper.GetString(profileCpuFlag); profileOut != "" {
			profiler = profile.Start(profile.CPUProfile,
				profile.ProfilePath(profileOut), profile.NoShutdownHook,
				profile.Quiet)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// initSession loads the directory and the store and returns a session acting
// as the configured user.
func initSession() *chat.Session {
	f := loadSeed()
	dir, err := f.Directory()
	if err != nil {
		jww.FATAL.Panicf("Failed to build directory: %+v", err)
	}
	snap, err := f.Snapshot(dir)
	if err != nil {
		jww.FATAL.Panicf("Failed to build seed: %+v", err)
	}

	params := chat.GetDefaultParams()
	params.Seed = snap
	store, err := chat.NewStore(dir, initEventModel(), params)
	if err != nil {
		jww.FATAL.Panicf("Failed to open store: %+v", err)
	}

	userID := viper.GetString(userFlag)
	session, err := store.Session(userID)
	if err != nil {
		jww.FATAL.Panicf("Cannot act as %q: %+v", userID, err)
	}
	jww.INFO.Printf("Acting as %s (%s)", userID, dir.DisplayName(userID))
	return session
}

// loadSeed reads the seed file or falls back to the built-in one.
func loadSeed() *seed.File {
	var (
		f   *seed.File
		err error
	)
	if path := viper.GetString(seedFlag); path != "" {
		f, err = seed.Load(path)
	} else {
		f, err = seed.Default()
	}
	if err != nil {
		jww.FATAL.Panicf("%+v", err)
	}
	return f
}

// initEventModel selects the SQLite backend when a database path is set and
// the encrypted ekv session otherwise.
func initEventModel() chat.EventModel {
	if dbPath := viper.GetString(dbFlag); dbPath != "" {
		jww.INFO.Printf("Using SQLite database %s", dbPath)
		model, err := storage.NewEventModel(dbPath)
		if err != nil {
			jww.FATAL.Panicf("%+v", err)
		}
		return model
	}

	sessionDir := viper.GetString(sessionFlag)
	var kv ekv.KeyValue
	if sessionDir == "" {
		jww.WARN.Printf("No session directory specified! " +
			"Nothing will be saved")
		kv = ekv.MakeMemstore()
	} else {
		fs, err := ekv.NewFilestore(sessionDir, viper.GetString(passwordFlag))
		if err != nil {
			jww.FATAL.Panicf("Failed to open session %s: %+v", sessionDir,
				errors.WithStack(err))
		}
		kv = fs
	}
	return snapshot.NewEventModel(versioned.NewKV(kv))
}

func initLog(threshold uint, logPath string) {
	if logPath != "-" && logPath != "" {
		// Disable stdout output
		jww.SetStdoutOutput(io.Discard)
		// Use log file
		logOutput, err := os.OpenFile(logPath,
			os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			panic(err.Error())
		}
		jww.SetLogOutput(logOutput)
	}

	if threshold > 1 {
		jww.INFO.Printf("log level set to: TRACE")
		jww.SetStdoutThreshold(jww.LevelTrace)
		jww.SetLogThreshold(jww.LevelTrace)
		jww.SetFlags(log.LstdFlags | log.Lmicroseconds)
	} else if threshold == 1 {
		jww.INFO.Printf("log level set to: DEBUG")
		jww.SetStdoutThreshold(jww.LevelDebug)
		jww.SetLogThreshold(jww.LevelDebug)
		jww.SetFlags(log.LstdFlags | log.Lmicroseconds)
	} else {
		jww.INFO.Printf("log level set to: INFO")
		jww.SetStdoutThreshold(jww.LevelInfo)
		jww.SetLogThreshold(jww.LevelInfo)
	}
}

// init is the initialization function for Cobra which defines commands
// and flags.
func init() {
	// NOTE: The point of init() is to be declarative.
	// There is one init in each sub command. Do not put variable declarations
	// here, and ensure all the Flags are of the *P variety, unless there's a
	// very good reason not to have them as local params to sub command.
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String(configFlag, "",
		"Path to a config file (default ./convo.yaml)")

	rootCmd.PersistentFlags().UintP(logLevelFlag, "v", 0,
		"Verbose mode for debugging")
	bindPersistentFlagHelper(logLevelFlag, rootCmd)

	rootCmd.PersistentFlags().StringP(logFlag, "l", "-",
		"Path to the log output path (- is stdout)")
	bindPersistentFlagHelper(logFlag, rootCmd)

	rootCmd.PersistentFlags().StringP(sessionFlag, "s", "",
		"Sets the storage directory for session data")
	bindPersistentFlagHelper(sessionFlag, rootCmd)

	rootCmd.PersistentFlags().StringP(passwordFlag, "p", "",
		"Password to the session file")
	bindPersistentFlagHelper(passwordFlag, rootCmd)

	rootCmd.PersistentFlags().String(dbFlag, "",
		"Path to a SQLite database; replaces the session directory")
	bindPersistentFlagHelper(dbFlag, rootCmd)

	rootCmd.PersistentFlags().String(seedFlag, "",
		"YAML file with the participants and initial conversations "+
			"(default is the built-in seed)")
	bindPersistentFlagHelper(seedFlag, rootCmd)

	rootCmd.PersistentFlags().StringP(userFlag, "u", "user-1",
		"ID of the participant to act as")
	bindPersistentFlagHelper(userFlag, rootCmd)

	rootCmd.PersistentFlags().String(profileCpuFlag, "",
		"Enable cpu profiling into this directory")
	bindPersistentFlagHelper(profileCpuFlag, rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("CONVO")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile, _ := rootCmd.PersistentFlags().GetString(configFlag); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("convo")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			jww.FATAL.Panicf("Failed to read config %s: %+v",
				viper.ConfigFileUsed(), err)
		}
		return
	}
	jww.INFO.Printf("Using config file %s", viper.ConfigFileUsed())
}
