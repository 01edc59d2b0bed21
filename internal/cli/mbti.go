package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rampboard/pkg/mbti"
)

// mbtiCommand prints career, book and movie suggestions per MBTI type.
func (c *CLI) mbtiCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:       "mbti [TYPE]",
		Short:     "Suggest careers, books and movies for an MBTI type",
		Long:      `Without a type, mbti lists the career pair of all sixteen types.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: mbti.Types(),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 0 {
				all := mbti.All()
				if asJSON {
					return writeJSON(w, all)
				}
				rows := make([][]string, len(all))
				for i, p := range all {
					rows[i] = []string{p.Type, strings.Join(p.Careers, ", ")}
				}
				fmt.Fprintln(w, newTable("Type", "Careers").Rows(rows...).Render())
				return nil
			}

			p, err := mbti.Lookup(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(w, p)
			}

			fmt.Fprintln(w, StyleTitle.Render(p.Type))
			printSuccess(w, "%s", p.Pitch())
			printPicks(w, "Books", p.Books)
			printPicks(w, "Movies", p.Movies)
			if len(p.Books)+len(p.Movies) == 0 {
				printDetail(w, "no book or movie picks for %s yet", p.Type)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}

func printPicks(w io.Writer, label string, picks []mbti.Pick) {
	if len(picks) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleHighlight.Render(label))
	for _, pk := range picks {
		printKeyValue(w, pk.Title, pk.Blurb)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
