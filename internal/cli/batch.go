package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-parser/internal/models"
	"alfredoptarigan/resume-parser/internal/services"
)

var batchWorkers int

var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Analyze every PDF in a directory",
	Long: `Analyzes each PDF in the directory with a pool of workers and prints
one JSON line per resume. Failures are reported on stderr and do not stop
the remaining files.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 4, "number of resumes analyzed concurrently")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	jd, err := resolveJobDescription()
	if err != nil {
		return err
	}

	paths, err := listPDFs(args[0])
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		cmd.Println("No PDF files found.")
		return nil
	}

	jobs := make([]services.BatchJob, len(paths))
	for i, p := range paths {
		jobs[i] = services.BatchJob{Path: p, JobDescription: jd}
	}

	runner := services.NewBatchRunner(pdfParser, analyzer, batchWorkers, cliLog)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	failed := 0
	err = drainBatch(runner.Run(ctx, jobs), cancel, func(res services.BatchResult) error {
		if res.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", filepath.Base(res.Path), res.Err)
			return nil
		}
		return writeJSON(cmd, models.ProcessResponse{
			Filename:       filepath.Base(res.Path),
			AnalysisResult: res.Result,
		}, false)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Processed %d resumes, %d failed\n", len(paths), failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d resumes failed", failed, len(paths))
	}
	return nil
}

func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !services.IsPDFName(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// drainBatch hands each result to handle. After the first handle error it
// cancels the run and keeps reading until the channel closes, so no worker
// is left blocked on a send.
func drainBatch(results <-chan services.BatchResult, cancel context.CancelFunc, handle func(services.BatchResult) error) error {
	var firstErr error
	for res := range results {
		if firstErr != nil {
			continue
		}
		if err := handle(res); err != nil {
			firstErr = err
			cancel()
		}
	}
	return firstErr
}
