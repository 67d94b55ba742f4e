package main

import (
	"os"

	"github.com/spf13/cobra"

	cif "github.com/Scinformatic/CIFFile"
)

var (
	fmtOutPath string
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [file]",
	Short: "Reformat a CIF/mmCIF file, writing the canonical rendering",
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
			return err
		}

		var dst *os.File
		if fmtOutPath == "" || fmtOutPath == "-" {
			dst = os.Stdout
		} else {
			dst, err = os.Create(fmtOutPath)
			if err != nil {
				return err
			}
			defer dst.Close()
		}

		return f.Write(dst, cif.DefaultWriteOptions())
	},
}

func init() {
	fmtCmd.Flags().StringVarP(&fmtOutPath, "output", "o", "", "output path (default stdout)")
	rootCmd.AddCommand(fmtCmd)
}
