package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cif "github.com/Scinformatic/CIFFile"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a CIF/mmCIF file and report its block/category structure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		f, err := cif.Read(src, cfg.readOptions())
		if err != nil {
			var re *cif.ReadError
			if asReadError(err, &re) {
				for _, e := range re.Errors.Errs {
					logger.WithField("kind", e.Kind.String()).Warn(e.Error())
				}
			}
			return err
		}
		for _, e := range f.Errors().Errs {
			logger.WithField("kind", e.Kind.String()).Debug(e.Error())
		}
		for _, b := range f.Blocks() {
			fmt.Printf("block %s (%s)\n", b.Code(), b.Kind())
			for _, c := range b.Categories() {
				fmt.Printf("  category %-24s rows=%d cols=%v\n", c.Name(), c.NumRows(), c.Keywords())
			}
			for _, fr := range b.Frames() {
				fmt.Printf("  frame %s\n", fr.Code())
				for _, c := range fr.Categories() {
					fmt.Printf("    category %-22s rows=%d cols=%v\n", c.Name(), c.NumRows(), c.Keywords())
				}
			}
		}
		return nil
	},
}

func asReadError(err error, target **cif.ReadError) bool {
	re, ok := err.(*cif.ReadError)
	if ok {
		*target = re
	}
	return ok
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
