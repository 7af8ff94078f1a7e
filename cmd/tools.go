package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arraypress/edd-register-recount-tools/internal/logger"
	"github.com/arraypress/edd-register-recount-tools/internal/recount"
	"github.com/arraypress/edd-register-recount-tools/internal/recount/builtin"
	"github.com/arraypress/edd-register-recount-tools/internal/store"
)

var toolsOutputJSON bool

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Inspect the registered recount tools",
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the recount tools the host would register",
	RunE:  listTools,
}

var toolsValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Dry-run a tool definition file against the registration rules",
	Long: `Parses a YAML tool definition file and runs it through the same
validation that registration applies, without registering anything.
Only class tools can be declared in a file; callback tools are bound in
code and cannot carry their functions through YAML.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateDefinitionFile(os.Stdout, args[0])
	},
}

func init() {
	toolsListCmd.Flags().BoolVar(&toolsOutputJSON, "json", false, "output as JSON")
	toolsCmd.AddCommand(toolsListCmd)
	toolsCmd.AddCommand(toolsValidateCmd)
	rootCmd.AddCommand(toolsCmd)
}

// fileDefinition is the YAML shape of one tool entry in a definition file
type fileDefinition struct {
	Type        string `yaml:"type"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
	BatchSize   int64  `yaml:"batch_size"`
	Class       string `yaml:"class"`
	File        string `yaml:"file"`
}

// validateDefinitionFile checks every entry of a definition file by running
// it through a throwaway registry, reporting the first violation.
func validateDefinitionFile(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read definition file: %w", err)
	}

	var raw map[string]fileDefinition
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse definition file: %w", err)
	}

	defs := make(map[string]recount.Definition, len(raw))
	for key, fd := range raw {
		defs[key] = recount.Definition{
			Type:        recount.Type(fd.Type),
			Label:       fd.Label,
			Description: fd.Description,
			BatchSize:   fd.BatchSize,
			Class:       fd.Class,
			File:        fd.File,
		}
	}

	if err := newRegistry().Register(defs); err != nil {
		return err
	}

	fmt.Fprintf(w, "%d tool definitions valid\n", len(defs))
	return nil
}

type toolInfo struct {
	Key         string `json:"key"`
	Type        string `json:"type"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	BatchSize   int64  `json:"batch_size"`
}

func listTools(cmd *cobra.Command, args []string) error {
	st, err := store.NewStore(cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}()

	registry := newRegistry()
	if err := registry.Register(builtin.Definitions(st)); err != nil {
		return fmt.Errorf("failed to register built-in tools: %w", err)
	}

	infos := make([]toolInfo, 0, registry.Len())
	for _, def := range registry.Definitions() {
		infos = append(infos, toolInfo{
			Key:         def.Key,
			Type:        string(def.Type),
			Label:       def.Label,
			Description: def.Description,
			BatchSize:   def.BatchSize,
		})
	}

	if toolsOutputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tTYPE\tBATCH\tLABEL")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", info.Key, info.Type, info.BatchSize, info.Label)
	}
	return w.Flush()
}
