package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/api"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/optimize"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/service"
)

// batchRecord is one JSONL line of batch output.
type batchRecord struct {
	RunID         string           `json:"runId"`
	File          string           `json:"file"`
	Result        *optimize.Result `json:"result,omitempty"`
	Provider      string           `json:"provider,omitempty"`
	EnhancedError string           `json:"enhancedError,omitempty"`
	Error         string           `json:"error,omitempty"`
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		outFile string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Optimize every .txt and .md prompt file under a directory",
		Long: `Batch walks dir, optimizes each .txt and .md file concurrently and writes one
JSON line per file in path order. A file that fails is reported in its line
and does not stop the run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := discoverPromptFiles(args[0])
			if err != nil {
				return fmt.Errorf("failed to discover prompt files: %w", err)
			}
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}

			opts := optionsFromViper(a.v)
			opts.AutoTechniques = opts.AutoTechniques || a.v.GetBool("batch.auto")
			b := batchRun{
				svc:      svc,
				runID:    uuid.NewString(),
				domain:   a.v.GetString("domain"),
				mode:     a.v.GetString("batch.mode"),
				opts:     opts,
				enhanced: a.v.GetBool("enhanced"),
				strategy: a.v.GetString("strategy"),
				workers:  workers,
			}

			out := a.out
			if outFile != "" {
				f, err := os.Create(outFile)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", outFile, err)
				}
				defer f.Close()
				out = f
			}

			start := time.Now()
			failed, err := b.run(cmd.Context(), files, out)
			if err != nil {
				return err
			}
			a.logger.Info("batch complete", "run", b.runID, "files", len(files), "failed", failed, "elapsed", time.Since(start))
			if failed > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d files failed (run %s)\n", failed, len(files), b.runID)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write JSONL to a file instead of stdout")
	cmd.Flags().IntVarP(&workers, "workers", "w", runtime.GOMAXPROCS(0), "number of files optimized at once")
	cmd.Flags().String("mode", string(optimize.ModeNormal), "optimization mode: normal or system")
	cmd.Flags().Bool("auto", true, "apply the techniques the selector recommends")
	_ = a.v.BindPFlag("batch.mode", cmd.Flags().Lookup("mode"))
	_ = a.v.BindPFlag("batch.auto", cmd.Flags().Lookup("auto"))
	return cmd
}

type batchRun struct {
	svc      *service.PromptService
	runID    string
	domain   string
	mode     string
	opts     optimize.Options
	enhanced bool
	strategy string
	workers  int
}

// run optimizes files with a bounded pool and writes records in input order.
// It returns the number of files that failed.
func (b batchRun) run(ctx context.Context, files []string, out io.Writer) (int, error) {
	records := make([]batchRecord, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(b.workers, 1))
	for i, path := range files {
		g.Go(func() error {
			records[i] = b.optimizeFile(ctx, path)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	enc := json.NewEncoder(out)
	failed := 0
	for _, r := range records {
		if r.Error != "" {
			failed++
		}
		if err := enc.Encode(r); err != nil {
			return failed, fmt.Errorf("failed to write batch output: %w", err)
		}
	}
	return failed, nil
}

func (b batchRun) optimizeFile(ctx context.Context, path string) batchRecord {
	rec := batchRecord{RunID: b.runID, File: path}
	data, err := os.ReadFile(path)
	if err != nil {
		rec.Error = err.Error()
		return rec
	}
	resp, err := b.svc.Optimize(ctx, api.OptimizeRequest{
		Prompt:   string(data),
		Domain:   b.domain,
		Mode:     b.mode,
		Options:  b.opts,
		Enhanced: b.enhanced,
		Strategy: b.strategy,
	})
	if err != nil {
		rec.Error = err.Error()
		return rec
	}
	rec.Result, rec.Provider, rec.EnhancedError = resp.Result, resp.Provider, resp.EnhancedError
	return rec
}

// discoverPromptFiles returns the .txt and .md files under dir, sorted.
func discoverPromptFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".md":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}
