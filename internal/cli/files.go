package cli

import (
	"github.com/spf13/cobra"
)

func newFilesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List files in load order",
		Long: `List every file of the fixture from least to most overriding, with the
include chain that loads it. Unreachable files are listed but ignored by
resolution.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.loadModel()
			if err != nil {
				return err
			}

			files, err := m.Files()
			if err != nil {
				return err
			}

			order := m.Order()

			report := make(fileReport, len(files))
			for i, f := range files {
				report[i] = fileInfo{
					Package:      f.Package,
					Resource:     f.Resource,
					Reachable:    order.Reachable(f),
					IncludeChain: order.IncludeChain(f),
				}
			}

			return a.write(cmd, report)
		},
	}
}

func newDiagnosticsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diagnostics",
		Short: "List warnings and notes found while building the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.loadModel()
			if err != nil {
				return err
			}

			return a.write(cmd, newDiagnosticReport(m.Diagnostics()))
		},
	}
}
