package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/thushan/ladder/internal/config"
	"github.com/thushan/ladder/internal/core/domain"
	"github.com/thushan/ladder/internal/core/ports"
	"github.com/thushan/ladder/internal/util"
	"github.com/thushan/ladder/pkg/format"
)

const runPrompt = "ladder> "

type runOptions struct {
	rate            float64
	asJSON          bool
	watch           bool
	follow          bool
	summary         bool
	failOnExhausted bool
}

func newRunCommand(global *globalOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Dispatch requests read from stdin, one per line",
		Long: `Read "<severity> <description>" lines from stdin and dispatch each one.
Blank lines and lines starting with # are ignored. With --watch the chain is
rebuilt whenever the config file changes; requests already in flight finish
on the chain they started with.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoop(cmd, global, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print each outcome as a JSON line")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Reload the chain when the config file changes")
	cmd.Flags().BoolVarP(&opts.follow, "follow", "f", false, "Stream every dispatch event to stderr as it happens")
	cmd.Flags().Float64Var(&opts.rate, "rate", 0, "Maximum dispatches per second, 0 for unlimited")
	cmd.Flags().BoolVar(&opts.summary, "summary", true, "Print dispatch statistics on exit")
	cmd.Flags().BoolVar(&opts.failOnExhausted, "fail-on-exhausted", false,
		"Exit with code 3 if any request was exhausted")

	return cmd
}

func runLoop(cmd *cobra.Command, global *globalOptions, opts *runOptions) error {
	rt, err := global.bootstrapForRun(cmd, opts.watch)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	in := cmd.InOrStdin()

	stopFollowing := func() {}
	if opts.follow {
		stopFollowing = followEvents(ctx, rt.app.Events(), cmd.ErrOrStderr())
		defer stopFollowing()
	}
	interactive := in == io.Reader(os.Stdin) && util.IsInputTerminal()

	rt.log.InfoWithCount("Ready for requests", rt.app.Chain().Len(), "handlers", rt.app.Chain().Names())

	var limiter *rate.Limiter
	if opts.rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.rate), 1)
	}

	started := time.Now()
	lines := readLines(ctx, in)
	var invalid int

	for {
		if interactive {
			fmt.Fprint(out, runPrompt)
		}

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			rt.log.Info("Interrupted, stopping")
		case line, ok = <-lines:
		}
		if !ok {
			break
		}

		req, skip, err := parseLine(line)
		if skip {
			continue
		}
		if err != nil {
			invalid++
			rt.log.Warn("Skipping invalid request line", "line", line, "error", err)
			continue
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				rt.log.Info("Interrupted while throttled, stopping")
				break
			}
		}

		outcome := rt.app.Dispatch(ctx, req)
		if err := writeOutcome(out, outcome, opts.asJSON); err != nil {
			return err
		}
	}

	stopFollowing()

	stats := rt.app.Stats()
	if opts.summary {
		if err := writeSummary(cmd.ErrOrStderr(), stats, invalid, time.Since(started)); err != nil {
			return err
		}
	}

	if opts.failOnExhausted && stats.GetDispatchStats().Exhausted > 0 {
		return &ExitError{Code: ExitCodeExhausted}
	}
	return nil
}

// bootstrapForRun is bootstrap plus, when watching, a config watcher that
// swaps the chain on every valid revision.
func (o *globalOptions) bootstrapForRun(cmd *cobra.Command, watch bool) (*runtime, error) {
	if !watch {
		return o.bootstrap(cmd)
	}

	reloader := newChainReloader(o)
	cfg, err := config.LoadWithWatch(o.configFile, reloader.onChange, reloader.onError)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	o.applyOverrides(cfg)

	rt, err := o.bootstrapWith(cmd, cfg)
	reloader.attach(rt)
	if err != nil {
		return nil, err
	}

	if cfg.Filename == "" {
		rt.log.Warn("No config file in use, --watch has nothing to watch")
	} else {
		rt.log.Info("Watching config for chain changes", "file", cfg.Filename)
	}
	return rt, nil
}

// chainReloader forwards config revisions from the watcher to the running
// application. Revisions arriving before attach wait for it; once attached
// with a nil runtime (startup failed) they are dropped.
type chainReloader struct {
	global *globalOptions
	ready  chan struct{}
	once   sync.Once
	rt     *runtime
}

func newChainReloader(global *globalOptions) *chainReloader {
	return &chainReloader{global: global, ready: make(chan struct{})}
}

func (r *chainReloader) attach(rt *runtime) {
	r.once.Do(func() {
		r.rt = rt
		close(r.ready)
	})
}

func (r *chainReloader) onChange(updated *config.Config) {
	<-r.ready
	if r.rt == nil {
		return
	}
	r.global.applyOverrides(updated)
	_ = r.rt.app.Reload(updated)
}

func (r *chainReloader) onError(err error) {
	<-r.ready
	if r.rt == nil {
		return
	}
	r.rt.log.Error("Ignoring config change", "error", err)
}

// readLines feeds r line by line until EOF or ctx is done.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// parseLine turns "<severity> <description>" into a request. skip is true
// for blank lines and # comments.
func parseLine(line string) (req domain.Request, skip bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return domain.Request{}, true, nil
	}

	cut := strings.IndexFunc(line, unicode.IsSpace)
	if cut < 0 {
		return domain.Request{}, false, fmt.Errorf("expected \"<severity> <description>\", got %q", line)
	}
	fields := [2]string{line[:cut], line[cut:]}

	severity, err := strconv.Atoi(fields[0])
	if err != nil {
		return domain.Request{}, false, fmt.Errorf("severity %q is not a number", fields[0])
	}

	req, err = domain.NewRequest(severity, fields[1])
	return req, false, err
}

func writeSummary(w io.Writer, stats ports.StatsCollector, invalid int, elapsed time.Duration) error {
	ds := stats.GetDispatchStats()

	data := pterm.TableData{
		{"Dispatched", "Handled", "Exhausted", "Invalid", "Avg hops", "Avg latency", "Max latency", "Elapsed"},
		{
			strconv.FormatInt(ds.TotalDispatches, 10),
			strconv.FormatInt(ds.Handled, 10) + " (" + format.Ratio(ds.Handled, ds.TotalDispatches) + ")",
			strconv.FormatInt(ds.Exhausted, 10) + " (" + format.Ratio(ds.Exhausted, ds.TotalDispatches) + ")",
			strconv.Itoa(invalid),
			format.Hops(ds.TotalHops, ds.TotalDispatches),
			format.Latency(ds.AverageLatency),
			format.Latency(ds.MaxLatency),
			format.Duration(elapsed),
		},
	}
	rendered, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, rendered); err != nil {
		return err
	}

	handlers := stats.GetHandlerStats()
	if len(handlers) == 0 {
		return nil
	}

	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)

	now := time.Now()
	perHandler := pterm.TableData{{"Handler", "Handled", "Share", "Last"}}
	for _, name := range names {
		hs := handlers[name]
		perHandler = append(perHandler, []string{
			name,
			strconv.FormatInt(hs.Handled, 10),
			format.Ratio(hs.Handled, ds.Handled),
			format.TimeAgo(hs.LastHandledAt, now),
		})
	}
	rendered, err = pterm.DefaultTable.WithHasHeader().WithData(perHandler).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, rendered)
	return err
}
