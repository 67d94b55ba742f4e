// Command cifcheck is a thin demonstration CLI over package cif and
// package ddl2: read a CIF/mmCIF file, optionally validate it against a
// DDL2 dictionary, and rewrite it. It is an external collaborator of the
// core library, not part of it — the path resolution and file I/O it does
// are deliberately kept out of package cif's Read/Write contracts. It
// performs no encoding detection.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "cifcheck",
		Short:        "cifcheck",
		SilenceUsage: true,
		Long:         `CLI tool for parsing, validating, and reformatting CIF/mmCIF files.`,
	}

	configPath string
	logger     = logrus.StandardLogger()
)

// Execute runs the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "cifcheck.yaml", "path to a cifcheck config file")
	return rootCmd.Execute()
}

func main() {
	if err := Execute(); err != nil {
		logger.WithError(err).Error("cifcheck failed")
		os.Exit(1)
	}
}
