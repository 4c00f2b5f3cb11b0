package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-parser/internal/models"
)

var parsePretty bool

var parseCmd = &cobra.Command{
	Use:   "parse [file.pdf]",
	Short: "Analyze a single resume PDF",
	Long: `Extracts the resume into structured JSON and scores it for ATS
compatibility. With a job description the output also carries a job match.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVarP(&parsePretty, "pretty", "p", false, "indent the JSON output")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]

	jd, err := resolveJobDescription()
	if err != nil {
		return err
	}

	text, err := pdfParser.ExtractText(path)
	if err != nil {
		return fmt.Errorf("could not read %s: %w", path, err)
	}

	result, err := analyzer.Analyze(cmd.Context(), text, jd)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	return writeJSON(cmd, models.ProcessResponse{
		Filename:       filepath.Base(path),
		AnalysisResult: result,
	}, parsePretty)
}

func writeJSON(cmd *cobra.Command, v interface{}, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
