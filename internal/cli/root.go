// Package cli implements the resumectl command tree.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-parser/internal/bootstrap"
	"alfredoptarigan/resume-parser/internal/config"
	"alfredoptarigan/resume-parser/internal/logger"
	"alfredoptarigan/resume-parser/internal/services"
)

// Services used by the commands. Tests replace them directly.
var (
	analyzer  services.ResumeAnalyzer
	pdfParser services.PDFParserService
	cliLog    logger.Logger = logger.NewNoOpLogger()

	components *bootstrap.Components
)

var (
	jobDescription     string
	jobDescriptionFile string
)

var rootCmd = &cobra.Command{
	Use:   "resumectl",
	Short: "Parse and score resumes from the command line",
	Long: `resumectl runs the same analysis as the HTTP API against local PDF files:
structured extraction, an optional job match and an ATS score.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if components == nil {
			return nil
		}
		return components.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&jobDescription, "job-description", "j", "", "job description text to match against")
	rootCmd.PersistentFlags().StringVar(&jobDescriptionFile, "job-description-file", "", "read the job description from a file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func initServices(cmd *cobra.Command, args []string) error {
	if analyzer != nil && pdfParser != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.NewStructured(cfg.Log.Level, cfg.Log.Format)
	c, err := bootstrap.Build(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	components = c
	analyzer = c.Analyzer
	pdfParser = c.PDFParser
	cliLog = log
	return nil
}

func resolveJobDescription() (string, error) {
	if jobDescription != "" && jobDescriptionFile != "" {
		return "", errors.New("use either --job-description or --job-description-file, not both")
	}
	if jobDescriptionFile == "" {
		return strings.TrimSpace(jobDescription), nil
	}

	data, err := os.ReadFile(jobDescriptionFile)
	if err != nil {
		return "", fmt.Errorf("failed to read job description: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
