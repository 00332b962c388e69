package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pedigraph/pkg/errors"
	pedio "github.com/matzehuels/pedigraph/pkg/io"
	"github.com/matzehuels/pedigraph/pkg/pedigree"
	"github.com/matzehuels/pedigraph/pkg/pipeline"
)

// commonFlags are shared by every analysis command.
type commonFlags struct {
	config  string
	json    bool
	noCache bool
	refresh bool
	missing []string
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.config, "config", "", "config file (default $XDG_CONFIG_HOME/pedigraph/config.toml)")
	cmd.Flags().BoolVar(&f.json, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute cached results")
	cmd.Flags().StringSliceVar(&f.missing, "missing", nil, `parent tokens meaning "unknown" (default "",0,NA)`)
}

// analysis is a loaded pedigree together with the run over it.
type analysis struct {
	ped    *pedigree.Pedigree
	result *pipeline.Result
}

// analyze loads the pedigree at path and runs the named analyses. tune may
// adjust the options after config and before validation.
func (c *CLI) analyze(cmd *cobra.Command, path string, f *commonFlags, tune func(*pipeline.Options), analyses ...string) (*analysis, error) {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(f.config)
	if err != nil {
		return nil, err
	}
	tokens := cfg.MissingTokens
	if cmd.Flags().Changed("missing") {
		tokens = f.missing
	}

	prog := newProgress(logger)
	p, err := pedio.ImportJSON(path, pedigree.WithMissingTokens(tokens...))
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Loaded %d individuals", p.Len()))

	opts := cfg.pipelineOptions()
	opts.Analyses = analyses
	opts.Refresh = f.refresh
	opts.Logger = logger
	if tune != nil {
		tune(&opts)
	}

	runner := c.newRunner(ctx, cfg.Cache, f.noCache)
	defer runner.Close()

	var sp *Spinner
	if !f.json {
		sp = newSpinner(ctx, c.errOut, "Analyzing pedigree...")
		sp.Start()
	}
	res, err := runner.Execute(ctx, p, opts)
	if sp != nil {
		sp.Stop()
	}
	if err != nil {
		return nil, err
	}
	return &analysis{ped: p, result: res}, nil
}

// failureError converts a recorded analysis failure into a coded error.
func failureError(f pipeline.Failure) error {
	code := f.Code
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errors.New(code, "%s: %s", f.Analysis, f.Message)
}

// override copies v into dst when the named flag was set explicitly.
func override[T any](cmd *cobra.Command, name string, dst *T, v T) {
	if cmd.Flags().Changed(name) {
		*dst = v
	}
}
