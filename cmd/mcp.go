package cmd

import (
	"fmt"

	"github.com/huangsam/motionreport/internal/contract"
	"github.com/huangsam/motionreport/internal/mcp"
	"github.com/huangsam/motionreport/internal/store"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [input-file]",
	Short: "Start the motion report MCP server",
	Long: `Launch an MCP server that lets AI agents list, read, select and summarize
motion series via standard tools. An input file given here is the default
source of every tool call.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(_ *cobra.Command, args []string) error {
		if err := resolveInput(args); err != nil {
			return err
		}
		if err := contract.ProcessAndValidateServer(cfg, input); err != nil {
			return err
		}
		if err := store.InitStore(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
			return fmt.Errorf("failed to initialize persistence: %w", err)
		}
		return nil
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
