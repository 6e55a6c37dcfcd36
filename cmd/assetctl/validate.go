package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"asset-forge/core/metrics"
	"asset-forge/core/models"
	"asset-forge/mesh"
)

// auditReport is the JSON document written by --output
type auditReport struct {
	Timestamp   time.Time    `json:"timestamp"`
	TotalFiles  int          `json:"total_files"`
	PassedFiles int          `json:"passed_files"`
	FailedFiles int          `json:"failed_files"`
	Files       []auditEntry `json:"files"`
}

type auditEntry struct {
	FilePath string                   `json:"file_path"`
	Error    string                   `json:"error,omitempty"`
	Metrics  *models.MetricsRecord    `json:"metrics,omitempty"`
	Report   *models.ValidationReport `json:"validation,omitempty"`
}

// newValidateCmd creates the validate command
func newValidateCmd() *cobra.Command {
	var (
		rulesPath  string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Audit a mesh file or a directory of mesh files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules := metrics.DefaultRules()
			if rulesPath != "" {
				var err error
				rules, err = metrics.LoadRules(rulesPath)
				if err != nil {
					return err
				}
			}

			files, err := collectMeshFiles(args[0])
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no mesh files found under %s", args[0])
			}

			engine := metrics.NewEngine()
			report := auditReport{Timestamp: time.Now(), TotalFiles: len(files)}
			for _, path := range files {
				entry := auditFile(engine, rules, path)
				report.Files = append(report.Files, entry)
				if entry.Error == "" && entry.Report.Passed {
					report.PassedFiles++
					fmt.Printf("PASS %s (%d vertices, %d faces)\n",
						path, entry.Metrics.VertexCount, entry.Metrics.FaceCount)
					for _, w := range entry.Report.Warnings {
						fmt.Printf("     warning: %s\n", w)
					}
				} else {
					report.FailedFiles++
					fmt.Printf("FAIL %s\n", path)
					if entry.Error != "" {
						fmt.Printf("     error: %s\n", entry.Error)
					} else {
						for _, e := range entry.Report.Errors {
							fmt.Printf("     error: %s\n", e)
						}
					}
				}
			}

			fmt.Printf("\n%d files, %d passed, %d failed\n",
				report.TotalFiles, report.PassedFiles, report.FailedFiles)

			if outputPath != "" {
				if err := writeAuditReport(outputPath, report); err != nil {
					return err
				}
				fmt.Printf("report written to %s\n", outputPath)
			}
			if report.FailedFiles > 0 {
				return fmt.Errorf("%d of %d files failed validation", report.FailedFiles, report.TotalFiles)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "YAML file overriding the validation thresholds")
	cmd.Flags().StringVar(&outputPath, "output", "", "write the full audit report to this JSON file")
	return cmd
}

// collectMeshFiles expands a file or directory argument into mesh files
func collectMeshFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(entry.Name())), ".")
		for _, format := range mesh.Formats() {
			if ext == format {
				files = append(files, filepath.Join(path, entry.Name()))
				break
			}
		}
	}
	return files, nil
}

// auditFile decodes, measures and validates one mesh file
func auditFile(engine *metrics.Engine, rules metrics.Rules, path string) auditEntry {
	entry := auditEntry{FilePath: path}

	data, err := os.ReadFile(path)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	m, err := mesh.Decode(data, format)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}

	rec := engine.Compute(m, path)
	report := engine.Validate(rec, rules)
	entry.Metrics = &rec
	entry.Report = &report
	return entry
}

func writeAuditReport(path string, report auditReport) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
