package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/toolc/toolc/internal/idgen"
	"github.com/toolc/toolc/pkg/catalog"
	"github.com/toolc/toolc/pkg/driver"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] source_file(s)",
	Short: "compile a batch of script/config source files",
	Long:  "Compile a given set of script and configuration source files into bytecode/binary-config artifacts plus a diagnostics report.",
	Args:  cobra.MinimumNArgs(1),
	Run:   runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("report", "r", "", "write the batch diagnostics report as JSON to this path")
	compileCmd.Flags().StringP("outdir", "o", ".", "directory to write compiled artifacts to")
}

func runCompile(cmd *cobra.Command, args []string) {
	log := logrus.New()
	if getFlagBool(cmd, "verbose") {
		log.SetLevel(logrus.DebugLevel)
	}

	mode := driver.EmitArtifacts
	if getFlagBool(cmd, "analyze-only") {
		mode = driver.AnalyzeOnly
	}

	var instructions *catalog.InstructionMap

	if mode == driver.EmitArtifacts {
		path := getFlagString(cmd, "instructions")
		if path == "" {
			fmt.Fprintln(os.Stderr, "toolc: --instructions is required unless --analyze-only is set")
			os.Exit(2)
		}

		m, err := catalog.LoadInstructionMap(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "toolc:", err)
			os.Exit(1)
		}

		if !m.Ready() {
			fmt.Fprintf(os.Stderr, "toolc: instruction map %s is missing entries for %v\n", path, m.Missing())
			os.Exit(1)
		}

		instructions = m
	}

	sourceFiles := make([]driver.SourceFile, 0, len(args))

	for _, path := range args {
		bytes, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "toolc:", err)
			os.Exit(1)
		}

		sourceFiles = append(sourceFiles, driver.SourceFile{
			Path:      path,
			Extension: strings.TrimPrefix(filepath.Ext(path), "."),
			Bytes:     bytes,
		})
	}

	d := driver.New(idgen.New(), instructions, getFlagBool(cmd, "allow-override"), log)

	if path := getFlagString(cmd, "triggers"); path != "" {
		triggers, err := catalog.LoadTriggers(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "toolc:", err)
			os.Exit(1)
		}

		d.SetTriggers(triggers)
	}

	if path := getFlagString(cmd, "commands"); path != "" {
		commands, err := catalog.LoadCommands(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "toolc:", err)
			os.Exit(1)
		}

		d.SeedCommands(commands)
	}

	out := d.Compile(driver.Input{SourceFiles: sourceFiles, Mode: mode})

	writeArtifacts(out, getFlagString(cmd, "outdir"), log)

	if report := getFlagString(cmd, "report"); report != "" {
		writeReport(out, report)
	}

	for path, cf := range out.CompiledFiles {
		if cf.Erroneous {
			log.WithField("file", path).Warnf("%d diagnostic(s)", len(cf.Errors))
		}
	}
}

func writeArtifacts(out *driver.Output, outdir string, log *logrus.Logger) {
	for path, cf := range out.CompiledFiles {
		if cf.Erroneous {
			continue
		}

		for _, unit := range cf.Units {
			if unit == nil || unit.Bytecode == nil {
				continue
			}

			ext := ".bin"
			if unit.Config != nil {
				ext = ".cfgbin"
			}

			name := sanitizeUnitName(unit.Name) + ext
			dest := filepath.Join(outdir, name)

			if err := os.WriteFile(dest, unit.Bytecode, 0o644); err != nil {
				log.WithField("file", path).Errorf("writing artifact %s: %v", dest, err)
			}
		}
	}
}

func sanitizeUnitName(name string) string {
	return strings.NewReplacer(",", "_", "[", "", "]", "").Replace(name)
}

func writeReport(out *driver.Output, path string) {
	bytes, err := json.MarshalIndent(out.Report(), "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "toolc: marshaling report:", err)
		return
	}

	if err := os.WriteFile(path, bytes, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "toolc: writing report:", err)
	}
}
