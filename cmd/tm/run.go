package main

import (
	"fmt"

	"github.com/blackwell-systems/turing"
	"github.com/blackwell-systems/turing/internal/logs"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		defPath string
		input   string
		trace   bool
	)
	cmd := &cobra.Command{
		Use:   "run -f definition -t tape",
		Short: "Run a machine on a tape; exits 1 when the input is rejected",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, _, err := a.compile(defPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			th := newTheme(out, a.cfg.Run.Color)
			id := uuid.NewString()
			ctx := logs.WithRun(cmd.Context(), id)
			logger := a.logger.With("definition", defPath)

			opts := []turing.RunOption[string]{turing.WithLogger[string](logger)}
			if n := a.cfg.Run.MaxSteps; n > 0 {
				opts = append(opts, turing.WithMaxSteps[string](n))
			}
			if trace {
				opts = append(opts, turing.WithStepHook(func(s turing.Step[string]) error {
					_, err := fmt.Fprintln(out, th.dim(fmt.Sprintf("%6d  %-12s %q  %s -> %s",
						s.N, s.State, s.Symbol, s.Action.Kind, s.Action.Next)))
					return err
				}))
			}

			res, err := m.RunContext(ctx, input, opts...)
			if err != nil {
				logger.ErrorContext(ctx, "run failed", "error", err)
				if res != nil {
					fmt.Fprintf(out, "%s\n%s\n", th.tape(res), th.dim(fmt.Sprintf("halted in %s after %d steps", res.State, res.Steps)))
				}
				return err
			}
			logger.InfoContext(ctx, "run finished",
				"accepted", res.Accepted,
				"state", res.State,
				"steps", res.Steps,
			)

			fmt.Fprintln(out, th.verdict(res))
			fmt.Fprintln(out, th.tape(res))
			fmt.Fprintln(out, th.dim(fmt.Sprintf("state %s, %d steps, run %s", res.State, res.Steps, id)))
			if !res.Accepted {
				return errRejected
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&defPath, "file", "f", "", "definition file (.toml, .json, .cue, .cbor)")
	cmd.Flags().StringVarP(&input, "tape", "t", "", "input tape")
	cmd.Flags().BoolVar(&trace, "trace", false, "print every step")
	cmd.Flags().Int("max-steps", 0, "stop after this many steps (0 = unbounded)")
	cmd.Flags().Bool("color", true, "highlight the head cell")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
