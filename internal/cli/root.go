package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fusion-engine/engine"
	"fusion-engine/internal/fixture"
)

const rootLongDescription = `fusion-engine resolves Fusion declarations: effective values of paths,
descendant trees, linked prototypes and positional ordering.

Declarations are read from a fixture file (YAML or JSONC) that lists the
package order, the include entrypoints and the statements of every file.`

// app carries the state shared by the commands of one command tree.
type app struct {
	v      *viper.Viper
	logger *slog.Logger
	closer io.Closer
	model  *engine.Model
}

// NewRootCmd builds the command tree with a fresh configuration.
func NewRootCmd() *cobra.Command {
	a := &app{v: newConfig(), logger: slog.New(slog.DiscardHandler)}

	cmd := &cobra.Command{
		Use:                "fusion-engine",
		Short:              "Fusion semantic resolution engine",
		Long:               rootLongDescription,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	a.configureRootFlags(cmd)

	cmd.AddCommand(
		newResolveCmd(a),
		newDescendantsCmd(a),
		newPrototypeCmd(a),
		newPrototypesCmd(a),
		newSortCmd(a),
		newFilesCmd(a),
		newDiagnosticsCmd(a),
		newDumpCmd(a),
		newVersionCmd(),
	)

	return cmd
}

func (a *app) configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP(fixtureFlagName, "f", a.v.GetString(fixtureKey), "declaration fixture to load (.yaml or .jsonc)")
	bindFlagToConfig(a.v, flags.Lookup(fixtureFlagName), fixtureKey)

	flags.Bool(strictFlagName, a.v.GetBool(strictKey), "fail on conflicting inheritance declarations")
	bindFlagToConfig(a.v, flags.Lookup(strictFlagName), strictKey)

	flags.StringP(formatFlagName, "o", a.v.GetString(formatKey), "output format: table, yaml, json or cbor")
	bindFlagToConfig(a.v, flags.Lookup(formatFlagName), formatKey)

	flags.Int(maxCopyDepthFlagName, a.v.GetInt(maxCopyDepthKey), "maximum depth of nested copy redirection")
	bindFlagToConfig(a.v, flags.Lookup(maxCopyDepthFlagName), maxCopyDepthKey)

	flags.String(logFileFlagName, a.v.GetString(logFilenameKey), "log file path")
	bindFlagToConfig(a.v, flags.Lookup(logFileFlagName), logFilenameKey)

	flags.BoolP(verboseFlagName, "v", a.v.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(a.v, flags.Lookup(verboseFlagName), logVerboseKey)
}

func (a *app) setup(_ *cobra.Command, _ []string) error {
	if _, err := a.format(); err != nil {
		return err
	}

	a.logger, a.closer = newLogger(a.v)

	return nil
}

func (a *app) teardown(_ *cobra.Command, _ []string) error {
	if a.closer == nil {
		return nil
	}

	return a.closer.Close()
}

func (a *app) format() (Format, error) {
	return ParseFormat(a.v.GetString(formatKey))
}

// loadModel reads the fixture and builds the model once per command tree.
func (a *app) loadModel() (*engine.Model, error) {
	if a.model != nil {
		return a.model, nil
	}

	path := a.v.GetString(fixtureKey)

	set, opts, err := fixture.LoadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := engine.DefaultConfig()
	cfg.PackageOrder = opts.PackageOrder
	cfg.Entrypoints = opts.Entrypoints
	cfg.StrictInheritance = opts.Strict || a.v.GetBool(strictKey)
	cfg.MaxCopyDepth = a.v.GetInt(maxCopyDepthKey)
	cfg.Logger = a.logger

	m, err := engine.Build(set, cfg)
	if err != nil {
		a.logger.Error("Failed to build model", "fixture", path, "error", err)
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	a.logger = m.Logger(a.logger)
	a.logger.Info("Model loaded", "fixture", path, "declarations", len(set.Declarations))
	a.model = m

	return m, nil
}

// write renders report in the configured format.
func (a *app) write(cmd *cobra.Command, report tabular) error {
	format, err := a.format()
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), format, report)
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
