package cmd

import (
	"fmt"
	"strings"

	appconv "aac2alac/application/conversion"
	"aac2alac/domain/conversion"
	"aac2alac/infrastructure/config"

	"github.com/spf13/cobra"
)

// conversionFlags are shared by convert and batch
type conversionFlags struct {
	outputDir string
	suffix    string
	streams   string
	anyCodec  bool
	noClobber bool
	progress  bool
}

func (f *conversionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.outputDir, "output-dir", "", "directory for converted files (default from config, else next to the source)")
	cmd.Flags().StringVar(&f.suffix, "suffix", conversion.DefaultSuffix, "appended to the source name to form the output name")
	cmd.Flags().StringVar(&f.streams, "streams", string(conversion.DefaultStreamPolicy), "non-audio streams: keep (.mov) or audio-only (.m4a)")
	cmd.Flags().BoolVar(&f.anyCodec, "any-codec", false, "convert audio that is not AAC instead of refusing it")
	cmd.Flags().BoolVar(&f.noClobber, "no-clobber", false, "fail instead of replacing an existing output file")
	cmd.Flags().BoolVar(&f.progress, "progress", false, "emit machine-readable PROGRESS lines on stdout")
}

// options merges config values with any flags given on the command line
func (f *conversionFlags) options(cmd *cobra.Command, cfg *config.Config) (appconv.Options, error) {
	opts := appconv.Options{
		OutputDir:  cfg.Output.Directory,
		Suffix:     cfg.Output.Suffix,
		Streams:    cfg.StreamPolicy(),
		RequireAAC: cfg.Conversion.RequireAAC,
		Overwrite:  cfg.Output.Overwrite,
	}

	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		opts.OutputDir = strings.TrimSpace(f.outputDir)
	}
	if flags.Changed("suffix") {
		if strings.ContainsAny(f.suffix, `/\`) {
			return appconv.Options{}, fmt.Errorf("--suffix %q must not contain a path separator", f.suffix)
		}
		opts.Suffix = f.suffix
	}
	if flags.Changed("streams") {
		policy, err := conversion.ParseStreamPolicy(f.streams)
		if err != nil {
			return appconv.Options{}, err
		}
		opts.Streams = policy
	}
	if f.anyCodec {
		opts.RequireAAC = false
	}
	if f.noClobber {
		opts.Overwrite = false
	}

	return opts, nil
}
