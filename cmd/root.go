package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"aac2alac/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	cfg      *config.Config
	cfgFound bool
	cfgErr   error
	verbose  bool
)

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

var rootCmd = &cobra.Command{
	Use:   "aac2alac",
	Short: "Convert AAC audio to Apple Lossless (ALAC) with ffmpeg",
	Long: `aac2alac re-encodes the AAC audio of a video or audio file into ALAC,
the lossless codec video editors import without decoding problems:

  - Probes the source with ffprobe and refuses files without AAC audio
  - Copies video, subtitle and data streams untouched (or drops them)
  - Writes <name>_alac.mov next to the source, never touching the original
  - Reports ffmpeg's own exit status when encoding fails

Example:
  aac2alac convert sample.mov
  aac2alac batch --progress clip1.mp4 clip2.mov`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with a status derived from the error
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(ExitCode(err))
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <user config dir>/aac2alac/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log probe results and the ffmpeg command line to stderr")
}

func initConfig() {
	if cfgFile == "" {
		path, err := config.DefaultPath()
		if err != nil {
			// Without a config location the built-in defaults still work
			cfg = config.Default()
			return
		}
		cfgFile = path
	}

	// A missing file means defaults; a broken one is reported by the
	// commands that need config
	cfg, cfgFound, cfgErr = config.LoadOrDefault(cfgFile)
}

// GetConfig returns the loaded configuration
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if cfg == nil {
		return config.Default(), nil
	}
	return cfg, nil
}
