package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"nhooyr.io/websocket"

	"github.com/mark3labs/swaggerc/internal/client"
)

// InvokeConfig is one operation call as given on the command line.
type InvokeConfig struct {
	Resource  string
	Operation string
	Args      map[string]any
	// Messages is how many websocket messages to print before closing.
	Messages int
}

var invokeRunner = runInvoke

func newInvokeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoke <resource> <operation> [name=value...]",
		Short: "Call an operation",
		Long: heredoc.Doc(`
			Call an operation with name=value arguments. Repeating a name sends a
			list, which is joined with commas. Body parameters take JSON objects
			through --json name='{"key": "value"}'.

			HTTP operations print the status line and the response body. Websocket
			operations print received text messages until --messages have arrived.`),
		Example: heredoc.Doc(`
			  swaggerc invoke pets getPet id=7
			  swaggerc invoke pets listPets tags=a tags=b
			  swaggerc invoke pets addPet --json pet='{"name": "rex"}'
			  swaggerc invoke events eventWebsocket app=hello --messages 5`),
		Args: minimumArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := resolveInvokeConfig(cmd, args)
			if err != nil {
				return err
			}
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			c, err := connector(cmd, cfg)
			if err != nil {
				return err
			}
			defer c.Close()
			return invokeRunner(cmd.Context(), c, inv, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringArray("json", nil, "Argument as name=<json>, for body parameters")
	cmd.Flags().Int("messages", 1, "Websocket messages to print before closing")
	return cmd
}

func resolveInvokeConfig(cmd *cobra.Command, args []string) (*InvokeConfig, error) {
	messages, err := cmd.Flags().GetInt("messages")
	if err != nil {
		return nil, err
	}
	if messages < 1 {
		return nil, newUsageError(fmt.Sprintf("invoke: --messages must be at least 1, got %d", messages))
	}
	jsonArgs, err := cmd.Flags().GetStringArray("json")
	if err != nil {
		return nil, err
	}
	named, err := parseArgs(args[2:], jsonArgs)
	if err != nil {
		return nil, err
	}
	return &InvokeConfig{Resource: args[0], Operation: args[1], Args: named, Messages: messages}, nil
}

// parseArgs turns name=value pairs into operation arguments. A repeated name
// becomes a []string. JSON arguments are decoded and may not repeat or clash
// with plain ones.
func parseArgs(plain, jsonArgs []string) (map[string]any, error) {
	out := make(map[string]any, len(plain)+len(jsonArgs))
	for _, kv := range plain {
		name, value, err := splitArg(kv)
		if err != nil {
			return nil, err
		}
		switch prev := out[name].(type) {
		case nil:
			out[name] = value
		case string:
			out[name] = []string{prev, value}
		case []string:
			out[name] = append(prev, value)
		}
	}
	for _, kv := range jsonArgs {
		name, raw, err := splitArg(kv)
		if err != nil {
			return nil, err
		}
		if _, dup := out[name]; dup {
			return nil, newUsageError(fmt.Sprintf("invoke: argument %q given more than once", name))
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, newUsageError(fmt.Sprintf("invoke: --json %s: %v", name, err))
		}
		out[name] = v
	}
	return out, nil
}

func splitArg(kv string) (string, string, error) {
	name, value, ok := strings.Cut(kv, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", newUsageError(fmt.Sprintf("invoke: argument %q is not name=value", kv))
	}
	return name, value, nil
}

func runInvoke(ctx context.Context, c *client.Client, inv *InvokeConfig, out io.Writer) error {
	op, err := c.Operation(inv.Resource, inv.Operation)
	if err != nil {
		return friendlyError(err)
	}
	res, err := op.Invoke(ctx, inv.Args)
	if err != nil {
		return friendlyError(err)
	}
	if res.Conn != nil {
		return printMessages(ctx, res.Conn, inv.Messages, out)
	}
	return printResponse(res.Response, out)
}

func printResponse(resp *http.Response, out io.Writer) error {
	defer resp.Body.Close()
	fmt.Fprintf(out, "%s %s\n", resp.Proto, resp.Status)
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		fmt.Fprintf(out, "Content-Type: %s\n", ct)
	}
	fmt.Fprintln(out)
	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	fmt.Fprintln(out)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed: %s", resp.Status)
	}
	return nil
}

func printMessages(ctx context.Context, conn *websocket.Conn, n int, out io.Writer) error {
	for i := 0; i < n; i++ {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || errors.Is(err, io.EOF) {
				return nil
			}
			_ = conn.Close(websocket.StatusInternalError, "read failed")
			return fmt.Errorf("websocket read: %w", err)
		}
		if typ == websocket.MessageBinary {
			fmt.Fprintf(out, "<%d bytes binary>\n", len(data))
			continue
		}
		fmt.Fprintf(out, "%s\n", data)
	}
	// The peer may already have closed; nothing useful to report then.
	_ = conn.Close(websocket.StatusNormalClosure, "")
	return nil
}
