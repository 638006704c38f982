package cli

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"fusion-engine/internal/fpath"
	"fusion-engine/internal/resolve"
)

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path>...",
		Short: "Print the effective value of paths",
		Long: `Resolve each absolute path to its effective value, untyped or erased state.
Paths are resolved concurrently against the same model.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadModel()
			if err != nil {
				return err
			}

			paths := make([]fpath.AbsolutePath, len(args))
			for i, arg := range args {
				if paths[i], err = fpath.ParseAbsolute(arg); err != nil {
					return fmt.Errorf("path %q: %w", arg, err)
				}
			}

			report := make(pathReport, len(paths))

			var g errgroup.Group
			g.SetLimit(runtime.GOMAXPROCS(0))

			for i, p := range paths {
				g.Go(func() error {
					res, err := m.Resolve(p)
					report[i] = resolutionRow(p.String(), res, err)

					var cyc *resolve.CyclicCopyError
					if errors.As(err, &cyc) {
						a.logger.Warn("Cyclic copy", "path", p.String(), "depth", cyc.Depth)
					}

					return nil
				})
			}

			if err := g.Wait(); err != nil {
				return err
			}

			if err := a.write(cmd, report); err != nil {
				return err
			}

			failed := 0

			for _, r := range report {
				if r.Error != "" {
					failed++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d paths did not resolve", failed, len(report))
			}

			return nil
		},
	}
}

func resolutionRow(path string, res resolve.Result, err error) pathResult {
	if err == nil {
		return newPathResult(path, res)
	}

	row := pathResult{Path: path, State: "error", Error: err.Error()}

	if errors.Is(err, resolve.ErrNotFound) {
		row.State = "not-found"
	}

	return row
}
