package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/tradepatch/internal/field"
)

// FieldInfo describes one addressable leaf field.
type FieldInfo struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	ReadOnly bool   `json:"read_only,omitempty"`
}

// NewFieldsCommand creates the fields command.
func NewFieldsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List every field path rules can address",
		Long: `List every leaf field path with its value kind.

Nested paths such as villager.level may also be written as nested
mappings in rule files. ingredients.<n> lists the slots a two-ingredient
offer has; offers with fewer ingredients expose fewer slots.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			infos := listFields(field.Default())
			return formatter.Render(infos, func(w io.Writer) { writeFields(w, infos) })
		},
	}

	return cmd
}

func listFields(reg *field.Registry) []FieldInfo {
	listing := reg.List(nil, nil)
	infos := make([]FieldInfo, 0, len(listing))
	for _, path := range field.SortedPaths(listing) {
		acc := listing[path]
		infos = append(infos, FieldInfo{Path: path, Kind: acc.Kind().String(), ReadOnly: acc.ReadOnly()})
	}
	return infos
}

func writeFields(w io.Writer, infos []FieldInfo) {
	for _, info := range infos {
		if info.ReadOnly {
			fmt.Fprintf(w, "%-20s %-7s read-only\n", info.Path, info.Kind)
			continue
		}
		fmt.Fprintf(w, "%-20s %s\n", info.Path, info.Kind)
	}
}
