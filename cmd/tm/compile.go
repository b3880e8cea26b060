package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func newCompileCmd(a *app) *cobra.Command {
	var defPath, outPath string
	cmd := &cobra.Command{
		Use:   "compile -f definition [-o out.{rkt,tma}]",
		Short: "Compile a machine into one action machine program",
		Long: `Compile a machine into one action machine program that reads the tape
reversed and prints ACCEPT or REJECT. A .rkt output (or stdout) gets
rocketlang, a .tma output gets the mnemonic form read by tm asm.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, _, err := a.compile(defPath)
			if err != nil {
				return err
			}
			p, err := m.Program()
			if err != nil {
				return err
			}

			var text string
			switch ext := strings.ToLower(filepath.Ext(outPath)); {
			case outPath == "-" || ext == ".rkt":
				text = p.Rocketlang() + "\n"
			case ext == ".tma":
				text = p.String()
			default:
				return fmt.Errorf("compile: unsupported extension %q", ext)
			}

			if outPath == "-" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), text)
				return err
			}
			if err := os.WriteFile(outPath, []byte(text), 0644); err != nil {
				return err
			}
			a.logger.Info("compiled", "path", outPath, "instructions", p.Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&defPath, "file", "f", "", "definition file")
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file (.rkt or .tma), - for stdout")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
