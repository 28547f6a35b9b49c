package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	dto "github.com/dropDatabas3/collector/internal/http/dto/collector"
)

func newAppsCmd() *cobra.Command {
	cl := &client{
		BaseURL:   envOr("COLLECTOR_URL", "http://localhost:8080"),
		OutFormat: envOr("COLLECTOR_OUT", "text"),
		HTTP:      &http.Client{Timeout: 60 * time.Second},
	}

	appsCmd := &cobra.Command{
		Use:   "apps",
		Short: "Administra las aplicaciones de un collector en ejecución",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cl.Out = cmd.OutOrStdout()
		},
	}
	appsCmd.PersistentFlags().StringVar(&cl.BaseURL, "url", cl.BaseURL, "URL base del collector (env COLLECTOR_URL)")
	appsCmd.PersistentFlags().StringVar(&cl.OutFormat, "out", cl.OutFormat, "Formato de salida: json|text")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Lista las aplicaciones registradas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, body, err := cl.do(http.MethodGet, "/applications", nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return failure("list", status, body)
			}
			if cl.OutFormat == "json" {
				cl.print(status, body)
				return nil
			}
			var list dto.ApplicationList
			if err := json.Unmarshal(body, &list); err != nil {
				return fmt.Errorf("list: respuesta inválida: %w", err)
			}
			for _, a := range list.Applications {
				state := "available"
				if !a.DataAvailable {
					state = "no data"
				}
				fmt.Fprintf(cl.Out, "%s\t%s\t%s\n", a.Name, state, strings.Join(a.Nodes, ","))
			}
			return nil
		},
	}

	addCmd := &cobra.Command{
		Use:   "add NAME URL[,URL...]",
		Short: "Registra (o reemplaza) una aplicación con sus nodos",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			form := url.Values{"appName": {args[0]}, "appUrls": {args[1]}}
			status, body, err := cl.do(http.MethodPost, "/", form)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return failure("add", status, body)
			}
			cl.print(status, body)
			return nil
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove NAME",
		Short: "Quita una aplicación del collector (no toca los nodos)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// un nombre desconocido haría que el collector elija otra aplicación
			if err := cl.requireSelectable(args[0]); err != nil {
				return err
			}
			q := url.Values{"application": {args[0]}, "action": {"remove_application"}}
			status, body, err := cl.do(http.MethodGet, "/?"+q.Encode(), nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return failure("remove", status, body)
			}
			cl.print(status, body)
			return nil
		},
	}

	appsCmd.AddCommand(listCmd, addCmd, removeCmd)
	return appsCmd
}

// requireSelectable verifica que name esté registrada y con datos.
func (c *client) requireSelectable(name string) error {
	status, body, err := c.do(http.MethodGet, "/applications", nil)
	if err != nil {
		return err
	}
	if status/100 != 2 {
		return failure("list", status, body)
	}
	var list dto.ApplicationList
	if err := json.Unmarshal(body, &list); err != nil {
		return fmt.Errorf("list: respuesta inválida: %w", err)
	}
	for _, a := range list.Applications {
		if a.Name != name {
			continue
		}
		if !a.DataAvailable {
			return fmt.Errorf("aplicación %q sin datos disponibles; volver a registrarla antes de quitarla", name)
		}
		return nil
	}
	return fmt.Errorf("aplicación %q no registrada", name)
}
