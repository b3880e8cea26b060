package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/blackwell-systems/turing"
	"github.com/blackwell-systems/turing/definition"
	"github.com/blackwell-systems/turing/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errRejected = errors.New("input rejected")

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	v      *viper.Viper
	cfg    config.Config
	logger *slog.Logger
}

// flagKeys binds command line flags to config keys.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"max-steps":  "run.max_steps",
	"color":      "run.color",
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "tm",
		Short:         "Run and inspect tape automata",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "text", "log format (text, json)")

	root.AddCommand(
		newRunCmd(a),
		newCheckCmd(a),
		newExportCmd(a),
		newCompileCmd(a),
		newConvertCmd(a),
		newAsmCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	v, err := config.New()
	if err != nil {
		return err
	}
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	logger, err := cfg.Log.Logger()
	if err != nil {
		return err
	}
	a.v, a.cfg, a.logger = v, cfg, logger
	return nil
}

// compile loads a definition file and builds its machine.
func (a *app) compile(path string) (*turing.Machine[string], *turing.Report, error) {
	f, err := definition.Load(path)
	if err != nil {
		return nil, nil, err
	}
	m, report, err := definition.Compile(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s:\n%w", path, err)
	}
	a.logger.Debug("definition compiled",
		"path", path,
		"states", report.States,
		"transitions", report.Transitions,
	)
	return m, report, nil
}
