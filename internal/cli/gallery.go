package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "List the registered faces",
	Long:  `Loads the gallery directory the same way the server does and prints every name that has a usable face encoding.`,
	Args:  cobra.NoArgs,
	RunE:  runGallery,
}

func init() {
	rootCmd.AddCommand(galleryCmd)
}

func runGallery(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	names := a.Service.Gallery()
	if len(names) == 0 {
		fmt.Fprintf(out, "No faces registered in %s.\n", a.Config.FacesDir)
		return nil
	}

	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	fmt.Fprintf(out, "\nTotal: %d faces\n", len(names))
	return nil
}
