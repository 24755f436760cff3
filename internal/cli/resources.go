package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/mark3labs/swaggerc/internal/client"
	"github.com/mark3labs/swaggerc/internal/spec"
)

var resourcesRunner = runResources

func newResourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "List resources and their operations",
		Example: heredoc.Doc(`
			  swaggerc resources --url http://localhost:8088/ari/api-docs/resources.json
			  swaggerc --config swaggerc.yaml resources`),
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			c, err := connector(cmd, cfg)
			if err != nil {
				return err
			}
			defer c.Close()
			return resourcesRunner(cmd.Context(), c, cmd.OutOrStdout())
		},
	}
}

func runResources(_ context.Context, c *client.Client, out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, name := range c.ResourceNames() {
		r, err := c.Resource(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\n", r.Name(), strings.TrimSpace(r.Description()))
		for _, nick := range r.OperationNames() {
			op, _ := r.Lookup(nick)
			kind := "http"
			if op.IsWebsocket() {
				kind = "websocket"
			}
			fmt.Fprintf(tw, "  %s\t%s %s\t%s\n", op.Nickname(), op.Method(), op.URI(), kind)
		}
	}
	return tw.Flush()
}

var describeRunner = runDescribe

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <resource>",
		Short: "Show a resource's operations, parameters and models",
		Long: heredoc.Doc(`
			Show every operation of a resource with its parameters and error
			responses, followed by the resource's models rendered as OpenAPI 3
			JSON schemas.`),
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			c, err := connector(cmd, cfg)
			if err != nil {
				return err
			}
			defer c.Close()
			r, err := c.Resource(args[0])
			if err != nil {
				return friendlyError(err)
			}
			return describeRunner(cmd.Context(), r, cmd.OutOrStdout())
		},
	}
}

func runDescribe(_ context.Context, r *client.Resource, out io.Writer) error {
	fmt.Fprintf(out, "Resource %s\n", r.Name())
	for _, nick := range r.OperationNames() {
		op, _ := r.Lookup(nick)
		decl := op.Declaration()
		fmt.Fprintf(out, "\n%s %s %s\n", op.Method(), op.URI(), op.Nickname())
		if s := strings.TrimSpace(decl.Summary); s != "" {
			fmt.Fprintf(out, "  %s\n", s)
		}
		if op.IsWebsocket() {
			fmt.Fprintln(out, "  upgrade: websocket")
		}
		for _, p := range decl.Parameters {
			fmt.Fprintf(out, "  - %s (%s%s)%s\n", p.Name, p.ParamType, paramFlags(p), describeSuffix(p.Description))
		}
		for _, e := range decl.ErrorResponses {
			fmt.Fprintf(out, "  ! %d %s\n", e.Code, e.Reason)
		}
	}

	models := r.Models()
	if len(models) == 0 {
		return nil
	}
	fmt.Fprintln(out, "\nModels")
	for _, m := range models {
		data, err := json.MarshalIndent(m.Schema(), "  ", "  ")
		if err != nil {
			return fmt.Errorf("render model %s: %w", m.ID, err)
		}
		fmt.Fprintf(out, "\n  %s\n  %s\n", m.ID, data)
	}
	return nil
}

func paramFlags(p *spec.Parameter) string {
	var b strings.Builder
	if p.DataType != "" {
		b.WriteString(", " + p.DataType)
	}
	if p.Required {
		b.WriteString(", required")
	}
	if p.AllowMultiple {
		b.WriteString(", multiple")
	}
	return b.String()
}

func describeSuffix(desc string) string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return ""
	}
	return ": " + desc
}
