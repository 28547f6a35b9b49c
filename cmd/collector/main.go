// Command collector sirve la consola de agregación y administra sus aplicaciones.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Seteados con -ldflags en el build.
var (
	version = "dev"
	commit  = ""
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "collector",
		Short:         "Collector de monitoreo: agrega reportes de los nodos de cada aplicación",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newAppsCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
