package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var defPath, outPath string
	cmd := &cobra.Command{
		Use:   "export -f definition -o out.{json,cbor}",
		Short: "Write the compiled machine's portable description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, _, err := a.compile(defPath)
			if err != nil {
				return err
			}
			switch ext := strings.ToLower(filepath.Ext(outPath)); ext {
			case ".json":
				if err := m.Export(outPath); err != nil {
					return err
				}
			case ".cbor":
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				if err := m.ExportCBOR(f); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
			default:
				return fmt.Errorf("export: unsupported extension %q", ext)
			}
			a.logger.Info("exported", "path", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&defPath, "file", "f", "", "definition file")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (.json or .cbor)")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
