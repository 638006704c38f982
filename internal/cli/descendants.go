package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"fusion-engine/internal/fpath"
	"fusion-engine/internal/resolve"
)

func newDescendantsCmd(a *app) *cobra.Command {
	var children, ordered bool

	cmd := &cobra.Command{
		Use:   "descendants <path>",
		Short: "List the resolved descendants of a path",
		Long: `List every path below the given path, including paths reached through
copies. With --children only direct children are listed; children that
only exist through deeper declarations show as <virtual>. With --ordered
children are listed in @position order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadModel()
			if err != nil {
				return err
			}

			base, err := fpath.ParseAbsolute(args[0])
			if err != nil {
				return fmt.Errorf("path %q: %w", args[0], err)
			}

			var view []resolve.Descendant

			switch {
			case ordered:
				view, err = m.OrderedChildren(base)
			case children:
				var byKey map[string]resolve.Descendant
				if byKey, err = m.Children(base); err == nil {
					view = resolve.Sorted(byKey)
				}
			default:
				var byKey map[string]resolve.Descendant
				if byKey, err = m.ResolveDescendants(base); err == nil {
					view = resolve.Sorted(byKey)
				}
			}

			if err != nil {
				return err
			}

			return a.write(cmd, descendantsReport(view))
		},
	}

	cmd.Flags().BoolVar(&children, "children", false, "list direct children only")
	cmd.Flags().BoolVar(&ordered, "ordered", false, "list direct children in @position order")

	return cmd
}
