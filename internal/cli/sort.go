package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"fusion-engine/internal/position"
)

func newSortCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sort <key[=directive]>...",
		Short: "Order keys by position directives",
		Long: `Order keys by start, end, before, after or numeric position directives.

  fusion-engine sort x=start y=end z "w=before z"`,
		Args: cobra.MinimumNArgs(1),
		// sorting needs no fixture
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, positions := parseKeyDirectives(args)

			sorted, err := position.Sort(keys, positions)
			if err != nil {
				return err
			}

			return a.write(cmd, keyReport(sorted))
		},
	}
}

// parseKeyDirectives splits "key=directive" arguments at the first "=".
func parseKeyDirectives(args []string) ([]string, map[string]string) {
	keys := make([]string, 0, len(args))
	positions := make(map[string]string)

	for _, arg := range args {
		key, directive, found := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		keys = append(keys, key)

		if found {
			positions[key] = strings.TrimSpace(directive)
		}
	}

	return keys, positions
}
