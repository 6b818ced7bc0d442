package display

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// EnvJSON forces JSON output when set to a true value.
const EnvJSON = "GRIDSENSE_OUTPUT_JSON"

// ShouldOutputJSON determines if a command should output JSON: an explicit
// --json on the command wins, then the root's persistent --json, then EnvJSON.
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return envJSON()
	}

	if cmd.Flags().Changed("json") {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}

	if globalFlag, _ := cmd.Root().PersistentFlags().GetBool("json"); globalFlag {
		return true
	}

	return envJSON()
}

func envJSON() bool {
	v, err := strconv.ParseBool(os.Getenv(EnvJSON))
	return err == nil && v
}
