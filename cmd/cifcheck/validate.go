package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cif "github.com/Scinformatic/CIFFile"
	"github.com/Scinformatic/CIFFile/ddl2"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a CIF/mmCIF file against a DDL2 dictionary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		if cfg.DictionaryPath == "" {
			return fmt.Errorf("cifcheck validate: no dictionary configured (set dictionary: in %s)", configPath)
		}

		dictSrc, err := os.ReadFile(cfg.DictionaryPath)
		if err != nil {
			return err
		}
		dictFile, err := cif.Read(dictSrc, cfg.readOptions())
		if err != nil {
			return fmt.Errorf("reading dictionary %s: %w", cfg.DictionaryPath, err)
		}
		dict, err := ddl2.LoadDictionary(dictFile)
		if err != nil {
			return fmt.Errorf("loading dictionary %s: %w", cfg.DictionaryPath, err)
		}

		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		f, err := cif.Read(src, cfg.readOptions())
		if err != nil {
			return err
		}

		v := ddl2.NewValidator(dict, ddl2.DefaultValidatorOptions())
		findings := v.ValidateFile(f)

		if len(findings.Findings) == 0 {
			logger.Info("no findings")
			return nil
		}
		for _, fd := range findings.Findings {
			logger.WithField("kind", fd.Kind.String()).Warn(fd.String())
		}
		return fmt.Errorf("cifcheck validate: %d finding(s)", len(findings.Findings))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
