package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/freekieb7/hearth/inspect"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Frame a raw request or response and print its structure",
	Long: `Reads a raw message from FILE, or stdin when FILE is "-", frames it the way
the server does and prints the result as YAML.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}

		node, err := inspect.Parse(data)
		if err != nil {
			return err
		}
		if inspectJSON {
			return inspect.WriteJSON(cmd.OutOrStdout(), node)
		}
		return inspect.WriteYAML(cmd.OutOrStdout(), node)
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print JSON instead of YAML")
	rootCmd.AddCommand(inspectCmd)
}
