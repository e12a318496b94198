package loudml

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewCommand creates a Cobra command tree for model storage.
// The returned command can be executed directly or added to a parent CLI.
//
// Commands provided:
//   - models list
//   - models show <name>
//   - models load <name>
//   - models create -f <file>
//   - models delete <name> [--yes]
//   - models types
//
// Global flags: --json, --quiet, --verbose
func NewCommand(cfg Config, opts ...Option) *cobra.Command {
	var (
		jsonOutput bool
		quiet      bool
		verbose    bool
	)

	// Storage will be created in PersistentPreRunE
	var store Storage

	// The registry is needed before storage exists (create, types).
	scfg := newStorageConfig()
	for _, opt := range opts {
		opt(scfg)
	}
	registry := scfg.registry

	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage model definitions",
		Long:  "Create, inspect and delete model definitions persisted in a local directory.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip storage creation for help commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "types" {
				return nil
			}

			var err error
			store, err = NewStorage(cfg, opts...)
			if err != nil {
				return fmt.Errorf("failed to open model storage: %w", err)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	cmd.AddCommand(listCmd(&store, &jsonOutput, &verbose))
	cmd.AddCommand(showCmd(&store))
	cmd.AddCommand(loadCmd(&store, &jsonOutput))
	cmd.AddCommand(createCmd(&store, registry, &quiet))
	cmd.AddCommand(deleteCmd(&store, &quiet))
	cmd.AddCommand(typesCmd(registry, &jsonOutput))

	return cmd
}

func listCmd(store *Storage, jsonOutput, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List models",
		Long:  "List persisted models in the order they were created.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := (*store).ListModelInfo(cmd.Context())
			if err != nil {
				return err
			}
			return outputModelInfos(cmd.OutOrStdout(), infos, *jsonOutput, *verbose)
		},
	}
}

func showCmd(store *Storage) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print the raw model record",
		Long:  "Print the persisted record of a model without decoding it. Works for model types this build cannot load.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := (*store).GetModelData(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(data)
		},
	}
}

func loadCmd(store *Storage, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "load <name>",
		Short: "Load and validate a model",
		Long:  "Reconstruct a model from storage and print a summary of its settings.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := (*store).LoadModel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return outputModel(cmd.OutOrStdout(), m, *jsonOutput)
		},
	}
}

func createCmd(store *Storage, registry *Registry, quiet *bool) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create -f <file>",
		Short: "Create a model from a definition file",
		Long:  "Create a model from a JSON or YAML definition. The definition must set \"type\" and \"name\".",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := DecodeModelFile(registry, file)
			if err != nil {
				return err
			}
			if err := (*store).CreateModel(cmd.Context(), m); err != nil {
				return err
			}
			if !*quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s model %s\n", m.Type(), m.Name())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Model definition file (.json, .yaml or .yml)")
	cmd.MarkFlagRequired("file")
	return cmd
}

func deleteCmd(store *Storage, quiet *bool) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "Delete model %s? [y/N]: ", name)
				if !confirmPrompt(cmd.InOrStdin()) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			if err := (*store).DeleteModel(cmd.Context(), name); err != nil {
				return err
			}
			if !*quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}

func typesCmd(registry *Registry, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List supported model types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			types := registry.Types()
			if *jsonOutput {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(types)
			}
			for _, t := range types {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}

// confirmPrompt reads from stdin and returns true only if the user types 'y' or 'Y'.
// Returns false for empty input or any other response (default is no).
func confirmPrompt(r io.Reader) bool {
	scanner := bufio.NewScanner(r)
	if scanner.Scan() {
		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		return response == "y" || response == "yes"
	}
	return false
}

// Output helpers

func outputModelInfos(w io.Writer, infos []ModelInfo, asJSON, verbose bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	if len(infos) == 0 {
		fmt.Fprintln(w, "No models")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if verbose {
		fmt.Fprintln(tw, "NAME\tTYPE\tCREATED\tPATH")
	} else {
		fmt.Fprintln(tw, "NAME\tTYPE\tCREATED")
	}
	for _, m := range infos {
		created := m.CreatedAt.Local().Format("2006-01-02 15:04")
		if verbose {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Name, m.Type, created, m.Path)
		} else {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Name, m.Type, created)
		}
	}
	return tw.Flush()
}

func outputModel(w io.Writer, m Model, asJSON bool) error {
	data, err := m.Serialize()
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}

	fmt.Fprintf(w, "Name:         %s\n", m.Name())
	fmt.Fprintf(w, "Type:         %s\n", m.Type())
	if ts, ok := m.(*TimeSeriesModel); ok {
		s := ts.Settings()
		fmt.Fprintf(w, "Offset:       %gs\n", s.Offset)
		fmt.Fprintf(w, "Span:         %d\n", s.Span)
		fmt.Fprintf(w, "Bucket:       %gs\n", s.BucketInterval)
		fmt.Fprintf(w, "Interval:     %gs\n", s.Interval)
		fmt.Fprintf(w, "Threshold:    %g\n", s.Threshold)
		for _, f := range s.Features {
			fmt.Fprintf(w, "Feature:      %s = %s(%s)\n", f.Name, f.Metric, f.Field)
		}
	}
	trained := "no"
	if len(m.State()) > 0 {
		trained = "yes"
	}
	fmt.Fprintf(w, "Trained:      %s\n", trained)
	return nil
}
