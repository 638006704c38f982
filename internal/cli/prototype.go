package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"fusion-engine/internal/fpath"
	"fusion-engine/internal/prototype"
	"fusion-engine/internal/resolve"
)

func newPrototypeCmd(a *app) *cobra.Command {
	var at, base, attribute string

	cmd := &cobra.Command{
		Use:   "prototype <name>",
		Short: "Show the attributes of a prototype",
		Long: `Show the attributes of a prototype as seen at an evaluation path, with
inherited attributes and matching extensions applied.

The evaluation path marks prototype boundaries with <Name>, for example
  page<Acme.Site:Page>.body<Acme.Site:Content>`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadModel()
			if err != nil {
				return err
			}

			p, err := m.Prototype(args[0])
			if err != nil {
				return err
			}

			ev, err := prototype.ParseEvaluationPath(at)
			if err != nil {
				return fmt.Errorf("evaluation path %q: %w", at, err)
			}

			switch {
			case attribute != "":
				rel, err := fpath.ParseRelative(attribute)
				if err != nil {
					return fmt.Errorf("attribute %q: %w", attribute, err)
				}

				d, err := p.RequireAttribute(ev, rel)
				if err != nil {
					return err
				}

				return a.write(cmd, pathReport{newPathResult(d.Path.String(), d.Result)})

			case base != "":
				rel, err := fpath.ParseRelative(base)
				if err != nil {
					return fmt.Errorf("base %q: %w", base, err)
				}

				segments, err := p.ChildPathsFor(ev, rel)
				if err != nil {
					return err
				}

				keys := make(keyReport, len(segments))
				for i, s := range segments {
					keys[i] = s.String()
				}

				return a.write(cmd, keys)
			}

			view, err := p.AttributesFor(ev)
			if err != nil {
				return err
			}

			report := attributeReport{prototypeInfo: newPrototypeInfo(p), At: ev.String()}
			for _, d := range resolve.Sorted(view) {
				report.Attributes = append(report.Attributes, newPathResult(d.Path.String(), d.Result))
			}

			return a.write(cmd, report)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "evaluation path the prototype is rendered at")
	cmd.Flags().StringVar(&base, "base", "", "list the attribute keys below this relative path")
	cmd.Flags().StringVar(&attribute, "attribute", "", "show a single attribute, failing if it is missing")

	return cmd
}

func newPrototypesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prototypes",
		Short: "List every prototype with its inheritance chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.loadModel()
			if err != nil {
				return err
			}

			names := m.Prototypes()

			report := make(prototypeReport, 0, len(names))
			for _, n := range names {
				p, err := m.Prototype(n.String())
				if err != nil {
					return err
				}

				report = append(report, newPrototypeInfo(p))
			}

			return a.write(cmd, report)
		},
	}
}
