package main

import (
	"github.com/blackwell-systems/turing/definition"
	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	var inPath, outPath string
	cmd := &cobra.Command{
		Use:   "convert -f in -o out",
		Short: "Re-encode a definition file; formats follow the extensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := definition.Load(inPath)
			if err != nil {
				return err
			}
			if err := definition.Save(outPath, f); err != nil {
				return err
			}
			a.logger.Info("converted", "from", inPath, "to", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&inPath, "file", "f", "", "input definition file")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output definition file")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
