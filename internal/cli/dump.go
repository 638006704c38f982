package cli

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"fusion-engine/internal/fpath"
	"fusion-engine/internal/resolve"
)

// modelDump is the debug view printed by the dump command.
type modelDump struct {
	Fingerprint string
	Packages    []string
	Files       []string
	Prototypes  []string
	Tree        []pathResult
	Diagnostics []diagnosticInfo
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func newDumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Dump the resolved model for debugging",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.loadModel()
			if err != nil {
				return err
			}

			files, err := m.Files()
			if err != nil {
				return err
			}

			tree, err := m.ResolveDescendants(fpath.Root())
			if err != nil {
				return err
			}

			d := modelDump{
				Fingerprint: m.Fingerprint(),
				Packages:    m.Order().Packages(),
				Tree:        descendantsReport(resolve.Sorted(tree)),
				Diagnostics: newDiagnosticReport(m.Diagnostics()),
			}

			for _, f := range files {
				d.Files = append(d.Files, f.String())
			}

			for _, n := range m.Prototypes() {
				d.Prototypes = append(d.Prototypes, n.String())
			}

			dumpConfig.Fdump(cmd.OutOrStdout(), d)

			return nil
		},
	}
}
