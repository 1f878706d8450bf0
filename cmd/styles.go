package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shouni/go-genart-kit/pkg/director"
	"github.com/shouni/go-genart-kit/pkg/palette"
)

// newStylesCmd は、利用できるスタイルと配色スキームを一覧するサブコマンドなのだ。
func newStylesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "利用できるスタイルと配色スキームを表示するのだ。",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, k := range director.Kinds() {
				st := director.Lookup(k)
				schemes := make([]string, len(st.Params.Schemes))
				for i, s := range st.Params.Schemes {
					schemes[i] = string(s)
				}
				fmt.Fprintf(out, "%-10s schemes=%s blend=%s\n", st.Name(), strings.Join(schemes, ","), st.Params.Blend)
			}

			all := make([]string, 0, len(palette.Schemes()))
			for _, s := range palette.Schemes() {
				all = append(all, string(s))
			}
			fmt.Fprintf(out, "\nschemes: %s\n", strings.Join(all, ", "))
			return nil
		},
	}
}
