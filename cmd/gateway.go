package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/weeklymix/internal/gateway"
	"github.com/desertthunder/weeklymix/internal/shared"
	"github.com/urfave/cli/v3"
)

// GatewayCall invokes a raw MCP tool on the gateway for debugging.
func (r *Runner) GatewayCall(ctx context.Context, cmd *cli.Command) error {
	tool := cmd.StringArg("tool")
	if tool == "" {
		return fmt.Errorf("%w: tool name required", shared.ErrMissingArgument)
	}

	sg, ok := r.gw.(*gateway.StdioGateway)
	if !ok {
		return fmt.Errorf("%w: raw calls need a stdio gateway", shared.ErrInvalidArgument)
	}

	args := map[string]any{}
	if data := cmd.String("data"); data != "" {
		if err := json.Unmarshal([]byte(data), &args); err != nil {
			return fmt.Errorf("%w: invalid JSON arguments: %v", shared.ErrInvalidFlag, err)
		}
	}

	r.logger.Info("calling gateway tool", "tool", tool)

	if err := sg.Connect(ctx); err != nil {
		return err
	}
	defer sg.Close()

	text, err := sg.CallTool(ctx, tool, args)
	if err != nil {
		return err
	}

	return r.writePlain("%s\n", text)
}

// gatewayCommand handles raw gateway operations.
func gatewayCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "gateway",
		Usage: "Low-level MCP gateway operations",
		Commands: []*cli.Command{
			{
				Name:  "call",
				Usage: "Call an MCP tool and print the raw response text",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "tool"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "Tool arguments as JSON",
					},
				},
				Action: r.GatewayCall,
			},
		},
	}
}
