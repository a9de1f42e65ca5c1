// Command x86ref is a thin wrapper around the reference loader, trie
// builder, and decoder: load a reference file, disassemble a hex string,
// or dump catalog statistics. It contains no decode logic of its own.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/x86ref/x86ref/internal/config"
	"github.com/x86ref/x86ref/pkg/decoder"
	"github.com/x86ref/x86ref/pkg/refmodel"
	"github.com/x86ref/x86ref/pkg/refxml"
	"github.com/x86ref/x86ref/pkg/triebuild"
	"github.com/x86ref/x86ref/pkg/xhex"
)

func main() {
	var configPath string
	cfg := config.Default()

	rootCmd := &cobra.Command{
		Use:   "x86ref",
		Short: "x86/x86-64 reference catalog and decoder",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return nil
			}
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			*cfg = *loaded
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a decoder-defaults YAML manifest")

	loadCmd := &cobra.Command{
		Use:   "load [xml-path]",
		Short: "Load and validate a reference XML file (defaults to the configured reference_path)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(argOrEmpty(args, 0), cfg)
			if err != nil {
				return err
			}
			syntaxes := 0
			for _, e := range cat.Entries {
				syntaxes += len(e.Syntaxes)
			}
			fmt.Printf("Loaded %d entries, %d syntaxes\n", len(cat.Entries), syntaxes)
			return nil
		},
	}

	var mode string
	disasCmd := &cobra.Command{
		Use:   "disas [xml-path] <hex-bytes>",
		Short: "Decode a hex byte string against a loaded reference file (xml-path defaults to the configured reference_path)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			xmlPath, hexArg := "", args[0]
			if len(args) == 2 {
				xmlPath, hexArg = args[0], args[1]
			}
			cat, err := loadCatalog(xmlPath, cfg)
			if err != nil {
				return err
			}
			buf, err := xhex.ParseBytes(hexArg)
			if err != nil {
				return fmt.Errorf("x86ref: disas: %w", err)
			}
			trie, err := triebuild.Build(cat.Entries)
			if err != nil {
				return fmt.Errorf("x86ref: disas: %w", err)
			}
			m, err := resolveMode(mode, cfg)
			if err != nil {
				return fmt.Errorf("x86ref: disas: %w", err)
			}
			insts, err := decoder.New(trie, m).DecodeStream(buf)
			for _, inst := range insts {
				printInstruction(inst)
			}
			if err != nil {
				return fmt.Errorf("x86ref: disas: %w", err)
			}
			return nil
		},
	}
	disasCmd.Flags().StringVar(&mode, "mode", "", "Operating mode override (R, P, E, S)")

	catalogCmd := &cobra.Command{
		Use:   "catalog [xml-path]",
		Short: "Print group and extension histograms for a reference file (defaults to the configured reference_path)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(argOrEmpty(args, 0), cfg)
			if err != nil {
				return err
			}
			printHistogram("Groups", cat.GroupHistogram())
			extHist := make(map[string]int, len(cat.ExtensionHistogram()))
			for ext, n := range cat.ExtensionHistogram() {
				extHist[ext.String()] = n
			}
			printHistogram("Extensions", extHist)
			return nil
		},
	}

	rootCmd.AddCommand(loadCmd, disasCmd, catalogCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadCatalog resolves path (falling back to cfg.ReferencePath when path is
// empty), loads and validates the reference file, and filters the result
// down to cfg's enabled extensions.
func loadCatalog(path string, cfg *config.Config) (*refmodel.Catalog, error) {
	if path == "" {
		path = cfg.ReferencePath
	}
	if path == "" {
		return nil, fmt.Errorf("x86ref: no xml-path given and no reference_path configured")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("x86ref: %w", err)
	}
	defer f.Close()

	cat, err := refxml.Load(f)
	if err != nil {
		return nil, fmt.Errorf("x86ref: load %s: %w", path, err)
	}
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("x86ref: validate %s: %w", path, err)
	}

	exts, err := cfg.ExtensionSet()
	if err != nil {
		return nil, fmt.Errorf("x86ref: %w", err)
	}
	return cat.FilterByExtensions(exts), nil
}

// argOrEmpty returns args[i] if present, or "" otherwise.
func argOrEmpty(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func resolveMode(flagValue string, cfg *config.Config) (refmodel.Mode, error) {
	if flagValue != "" {
		return refmodel.ParseMode(flagValue)
	}
	return cfg.ParsedMode()
}

func printInstruction(inst *decoder.Instruction) {
	mnemonic := "?"
	if syn := inst.Entry.CanonicalSyntax(); syn != nil {
		mnemonic = syn.Mnemonic
	}
	fmt.Printf("%-8s length=%d", mnemonic, inst.TotalLength)
	if inst.HasREXPrefix {
		fmt.Printf(" rex=%#02x", inst.RexPrefix)
	}
	if inst.HasModRM {
		fmt.Printf(" modrm=%#02x", inst.ModRM)
	}
	if inst.HasSIB {
		fmt.Printf(" sib=%#02x", inst.SIB)
	}
	if inst.HasImmediate {
		fmt.Printf(" imm=%d", inst.ImmediateValue)
	}
	fmt.Println()
}

func printHistogram(title string, hist map[string]int) {
	fmt.Printf("%s:\n", title)
	keys := make([]string, 0, len(hist))
	for k := range hist {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-16s %d\n", k, hist[k])
	}
}
