package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nirmaan/scorer/internal/projectconfig"
	"github.com/nirmaan/scorer/internal/validation"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the project configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("rendering config: %w", err)
			}
			w := cmd.OutOrStdout()
			if cfg.Path != "" {
				fmt.Fprintf(w, "# %s\n", cfg.Path) //nolint:errcheck
			} else {
				fmt.Fprintln(w, "# defaults (no "+projectconfig.FileName+" found)") //nolint:errcheck
			}
			_, err = w.Write(out)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate [file]",
		Short: "Check a config file against the schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := configFileToValidate(root, args)
			if err != nil {
				return err
			}
			problems, err := validation.ValidateConfigFile(p)
			if err != nil {
				return err
			}
			if len(problems) > 0 {
				return &projectconfig.SchemaError{Problems: problems}
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", p)
			return err
		},
	})

	return cmd
}

func configFileToValidate(root *rootOptions, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if root.configPath != "" {
		return root.configPath, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	p, err := projectconfig.Find(wd)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("no %s found", projectconfig.FileName)
	}
	return p, err
}
