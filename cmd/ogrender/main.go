// Command ogrender writes a social preview PNG to disk using the same
// renderer as GET /api/og.
package main

import (
	"fmt"
	"io"
	"os"

	"welly-web/internal/preview"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		params preview.Params
		out    string
	)
	cmd := &cobra.Command{
		Use:   "ogrender",
		Short: "Render a 1200x630 social preview image",
		Example: `  ogrender --title "Olive" --subtitle "Cafe - 170 Cuba St" --type place -o olive.png
  ogrender --title "Loop" -o - > loop.png`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			img, err := preview.Render(params)
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}
			if out == "-" {
				return write(cmd.OutOrStdout(), img)
			}
			if err := os.WriteFile(out, img, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", out, len(img))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&params.Title, "title", "", "headline text (defaults to the site title)")
	flags.StringVar(&params.Subtitle, "subtitle", "", "secondary line")
	flags.StringVar(&params.Kind, "type", "", "entity kind: post, place, event, trail, guide or user")
	flags.StringVarP(&out, "out", "o", "og.png", `output file, or "-" for stdout`)
	return cmd
}

func write(w io.Writer, b []byte) error {
	_, err := w.Write(b)
	return err
}
