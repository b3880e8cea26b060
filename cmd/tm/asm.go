package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blackwell-systems/turing"
	"github.com/spf13/cobra"
)

func newAsmCmd(a *app) *cobra.Command {
	var (
		progPath string
		format   bool
		exec     bool
		input    string
	)
	cmd := &cobra.Command{
		Use:   "asm -p program",
		Short: "Assemble an action machine program and print it as rocketlang",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := readSource(cmd, progPath)
			if err != nil {
				return err
			}
			p, err := turing.ParseProgram(src)
			if err != nil {
				return err
			}
			if err := p.Validate(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if exec {
				vm := turing.NewVM()
				vm.In = strings.NewReader(input)
				vm.Out = out
				vm.Debug = cmd.ErrOrStderr()
				if err := vm.Exec(p); err != nil {
					return err
				}
				a.logger.Debug("program finished", "active", vm.Active, "inactive", vm.Inactive, "depth", vm.Depth())
				return nil
			}
			if format {
				_, err := fmt.Fprint(out, p)
				return err
			}
			_, err = fmt.Fprintln(out, p.Rocketlang())
			return err
		},
	}
	cmd.Flags().StringVarP(&progPath, "program", "p", "-", "program file, - for stdin")
	cmd.Flags().BoolVar(&format, "fmt", false, "print the program in canonical mnemonic form instead")
	cmd.Flags().BoolVar(&exec, "exec", false, "run the program, printing its output")
	cmd.Flags().StringVar(&input, "input", "", "input read by the program when run with --exec")
	return cmd
}

func readSource(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
