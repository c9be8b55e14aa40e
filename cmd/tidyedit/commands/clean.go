package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/tidyedit/internal/logger"
	"github.com/jmylchreest/tidyedit/internal/output"
	"github.com/jmylchreest/tidyedit/pkg/cleaner"
	"github.com/jmylchreest/tidyedit/pkg/cleaner/tidy"
)

const stdinSource = "-"

var cleanCmd = &cobra.Command{
	Use:   "clean [files...]",
	Short: "Clean contenteditable markup",
	Long: `Run the cleaning pipeline over each file, or stdin when no files are
given. Cleaned markup goes to stdout unless --output or --in-place is set.

The pipeline comes from --pipeline (a YAML or JSON stage list, see
"tidyedit stages") or from --preset: default, minimal, aggressive.

Examples:
  tidyedit clean note.html
  tidyedit clean --preset aggressive -o clean.html note.html
  tidyedit clean --stats --stats-format yaml < note.html
  tidyedit clean --in-place --watch notes/*.html`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	flags := cleanCmd.Flags()

	// Pipeline settings
	flags.String("preset", "default", "pipeline preset: default, minimal, aggressive")
	flags.String("pipeline", "", "path to a pipeline file (overrides --preset)")
	flags.String("format", "html", "output format: html, markdown")
	flags.String("max-size", "0", "max input size (e.g., 512KB, 1MB, 0=unlimited)")

	// Output settings
	flags.StringP("output", "o", "", "output file (default: stdout, single input only)")
	flags.BoolP("in-place", "w", false, "rewrite input files with the cleaned markup")
	flags.Bool("stats", false, "write a stats report to stderr")
	flags.String("stats-format", "text", "stats format: text, json, jsonl, yaml")

	flags.Bool("watch", false, "re-clean input files when they change")
	flags.IntP("jobs", "j", runtime.NumCPU(), "files to clean concurrently")

	// Bind to viper
	_ = viper.BindPFlag("preset", flags.Lookup("preset"))
	_ = viper.BindPFlag("pipeline", flags.Lookup("pipeline"))
	_ = viper.BindPFlag("format", flags.Lookup("format"))
	_ = viper.BindPFlag("max_size", flags.Lookup("max-size"))
	_ = viper.BindPFlag("stats_format", flags.Lookup("stats-format"))
}

func runClean(cmd *cobra.Command, args []string) error {
	initLogger()

	outPath, _ := cmd.Flags().GetString("output")
	inPlace, _ := cmd.Flags().GetBool("in-place")
	showStats, _ := cmd.Flags().GetBool("stats")
	watch, _ := cmd.Flags().GetBool("watch")
	jobs, _ := cmd.Flags().GetInt("jobs")

	sources := args
	if len(sources) == 0 {
		sources = []string{stdinSource}
	}

	switch {
	case outPath != "" && inPlace:
		return errors.New("--output and --in-place are mutually exclusive")
	case outPath != "" && len(sources) > 1:
		return errors.New("--output needs exactly one input file")
	case inPlace && sources[0] == stdinSource:
		return errors.New("--in-place needs input files")
	case watch && sources[0] == stdinSource:
		return errors.New("--watch needs input files")
	}

	cfg, err := loadPipeline(viper.GetString("preset"), viper.GetString("pipeline"))
	if err != nil {
		return err
	}
	if viper.GetBool("debug") {
		cfg.Debug = true
	}

	maxSize, err := humanize.ParseBytes(viper.GetString("max_size"))
	if err != nil {
		return fmt.Errorf("invalid --max-size: %w", err)
	}

	r, err := newRunner(cfg, viper.GetString("format"), maxSize)
	if err != nil {
		return err
	}
	logger.Debug("pipeline ready", "stages", r.tidy.Stages(), "format", viper.GetString("format"))

	var stats output.Writer
	if showStats {
		format, err := output.ParseFormat(viper.GetString("stats_format"))
		if err != nil {
			return err
		}
		stats, err = output.NewWriter(cmd.ErrOrStderr(), format)
		if err != nil {
			return err
		}
		defer func() {
			if err := stats.Close(); err != nil {
				logger.Error("failed to write stats", "error", err)
			}
		}()
	}

	job := &cleanJob{
		runner:  r,
		stdin:   cmd.InOrStdin(),
		stdout:  cmd.OutOrStdout(),
		outPath: outPath,
		inPlace: inPlace,
		stats:   stats,
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	failed := job.processAll(ctx, sources, jobs)

	if watch {
		return watchSources(ctx, sources, job.process)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(sources))
	}
	return nil
}

// loadPipeline returns the pipeline file's config when path is set, the
// named preset otherwise.
func loadPipeline(preset, path string) (*tidy.Config, error) {
	if path != "" {
		logger.Debug("loading pipeline", "path", path)
		return tidy.LoadConfig(path)
	}
	return tidy.Preset(preset)
}

// runner applies the tidy pipeline and then post, which converts the
// cleaned markup to the output format.
type runner struct {
	tidy    *tidy.Cleaner
	post    cleaner.Cleaner
	maxSize uint64
}

func newRunner(cfg *tidy.Config, format string, maxSize uint64) (*runner, error) {
	tc, err := tidy.New(cfg)
	if err != nil {
		return nil, err
	}

	r := &runner{tidy: tc, maxSize: maxSize}
	switch format {
	case "", "html":
		r.post = cleaner.NewNoop()
	case "markdown", "md":
		r.post = cleaner.NewChain(cleaner.NewMarkdown())
	default:
		return nil, fmt.Errorf("unsupported output format: %s (use html or markdown)", format)
	}
	return r, nil
}

// run cleans one input and reports what the pipeline did.
func (r *runner) run(source, html string) (string, output.Report, error) {
	if r.maxSize > 0 && uint64(len(html)) > r.maxSize {
		return "", output.Report{}, fmt.Errorf("input is %s, over the %s limit",
			humanize.Bytes(uint64(len(html))), humanize.Bytes(r.maxSize))
	}

	result := r.tidy.CleanWithStats(html)
	for _, w := range result.Warnings {
		logger.Warn("stage skipped", "source", source, "warning", w.String())
	}

	content, err := r.post.Clean(result.Content)
	if err != nil {
		return "", output.Report{}, fmt.Errorf("%s: %w", r.post.Name(), err)
	}

	return content, output.NewReport(source, r.tidy.Stages(), result), nil
}

// cleanJob routes one input through the runner to its destination.
type cleanJob struct {
	runner  *runner
	stdin   io.Reader
	stdout  io.Writer
	outPath string
	inPlace bool
	stats   output.Writer
}

// outcome is a cleaned input waiting to be written.
type outcome struct {
	source  string
	html    string
	content string
	report  output.Report
	err     error
}

// prepare reads and cleans source. It is safe to call concurrently.
func (j *cleanJob) prepare(source string) outcome {
	o := outcome{source: source}
	if o.html, o.err = readSource(source, j.stdin); o.err != nil {
		return o
	}
	o.content, o.report, o.err = j.runner.run(source, o.html)
	return o
}

// emit writes a prepared outcome to its destination and the stats report.
func (j *cleanJob) emit(o outcome) error {
	if o.err != nil {
		return o.err
	}

	switch {
	case j.inPlace:
		// Unchanged files are not rewritten, so a watcher sees no new event.
		if o.content != o.html {
			if err := writeFile(o.source, o.content); err != nil {
				return err
			}
			logger.Info("cleaned", "file", o.source, "removed", o.report.Stats.TotalRemoved())
		}
	case j.outPath != "":
		if err := writeFile(j.outPath, o.content); err != nil {
			return err
		}
		logger.Info("written", "path", j.outPath)
	default:
		if _, err := fmt.Fprintln(j.stdout, o.content); err != nil {
			return err
		}
	}

	if j.stats != nil {
		return j.stats.Write(o.report)
	}
	return nil
}

func (j *cleanJob) process(source string) error {
	return j.emit(j.prepare(source))
}

func readSource(source string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if source == stdinSource {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", source, err)
	}
	return string(data), nil
}

// writeFile keeps the existing file mode when path already exists.
func writeFile(path, content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// watchSources blocks until ctx is done, re-processing sources as they
// change on disk.
func watchSources(ctx context.Context, sources []string, process func(string) error) error {
	w, err := newSourceWatcher(sources)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	logger.Info("watching for changes", "files", len(sources))
	return w.Run(ctx, process)
}
