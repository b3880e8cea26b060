package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	var (
		defPath string
		strict  bool
	)
	cmd := &cobra.Command{
		Use:   "check -f definition",
		Short: "Validate a definition and print its verification report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, report, err := a.compile(defPath)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report)
			if strict && !report.AcceptingReachable {
				return errors.New("no accepting state is reachable")
			}
			if strict && len(report.Unreachable) > 0 {
				return fmt.Errorf("%d unreachable states", len(report.Unreachable))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&defPath, "file", "f", "", "definition file")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on unreachable states")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
