package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// writeJSON renders v as indented JSON on the command's stdout so the
// output can be piped into jq or another tool.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
