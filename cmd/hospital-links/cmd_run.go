package main

import (
	"bytes"
	"context"
	"encoding/json"
	"expvar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/hospital-links/internal/scenario"
)

type runOptions struct {
	jsonOut  bool
	failFast bool
	metrics  bool
	quiet    bool
	parallel int
}

// outcome is the result of one script together with its buffered output.
type outcome struct {
	result *scenario.Result
	output bytes.Buffer
}

func runCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [script.yaml ...]",
		Short: "Run scenario scripts (default: every *.yaml in scenario.dir)",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				var err error
				paths, err = filepath.Glob(filepath.Join(cfg.Scenario.Dir, "*.yaml"))
				if err != nil {
					return fmt.Errorf("run: listing scripts: %w", err)
				}
				if len(paths) == 0 {
					return fmt.Errorf("run: no scripts found in %s", cfg.Scenario.Dir)
				}
			}

			scripts := make([]*scenario.Script, 0, len(paths))
			for _, p := range paths {
				sc, err := scenario.Load(p)
				if err != nil {
					return fmt.Errorf("run: %w", err)
				}
				scripts = append(scripts, sc)
			}

			if !cmd.Flags().Changed("fail-fast") {
				opts.failFast = cfg.Scenario.FailFast
			}
			if opts.parallel <= 0 {
				opts.parallel = cfg.Scenario.Parallel
			}
			return runScripts(cmd.Context(), os.Stdout, scripts, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&opts.failFast, "fail-fast", false, "stop a script at its first mismatching step")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "print operation counters after the run")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress roster output of print steps")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 0, "scripts run concurrently (default scenario.parallel)")
	return cmd
}

// runScripts executes scripts concurrently, each against its own store, and
// writes their output in input order.
func runScripts(ctx context.Context, w io.Writer, scripts []*scenario.Script, opts runOptions) error {
	logger := newLogger()
	observer, reg, err := newObserver(logger, opts.metrics)
	if err != nil {
		return fmt.Errorf("run: building observers: %w", err)
	}

	outcomes := make([]*outcome, len(scripts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.parallel, 1))
	for i, sc := range scripts {
		oc := &outcome{}
		outcomes[i] = oc
		g.Go(func() error {
			var out io.Writer = &oc.output
			if opts.quiet || opts.jsonOut {
				out = io.Discard
			}
			res, err := scenario.NewRunner(out, logger, observer, opts.failFast).Run(gctx, sc)
			if err != nil {
				return err
			}
			oc.result = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	failed := 0
	results := make([]*scenario.Result, 0, len(outcomes))
	for _, oc := range outcomes {
		results = append(results, oc.result)
		if !oc.result.OK() {
			failed++
		}
	}

	if opts.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("run: encoding results: %w", err)
		}
	} else {
		for _, oc := range outcomes {
			if _, err := oc.output.WriteTo(w); err != nil {
				return fmt.Errorf("run: writing output: %w", err)
			}
			writeSummary(w, oc.result)
		}
	}

	if opts.metrics {
		if err := writeMetrics(w, reg); err != nil {
			return fmt.Errorf("run: writing metrics: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("run: %d of %d scenario(s) failed", failed, len(results))
	}
	return nil
}

func writeSummary(w io.Writer, res *scenario.Result) {
	status := "PASS"
	if !res.OK() {
		status = "FAIL"
	}
	fmt.Fprintf(w, "%s %s: %d steps, %d mismatches\n", status, res.Name, len(res.Steps), res.Failures)
	for _, st := range res.Steps {
		if st.Match {
			continue
		}
		fmt.Fprintf(w, "  step %d %s: expected %s, got %s", st.Index, st.Do, orOK(string(st.Expect)), orOK(string(st.Got)))
		if st.Error != "" {
			fmt.Fprintf(w, " (%s)", st.Error)
		}
		fmt.Fprintln(w)
	}
	if res.Integrity != "" {
		fmt.Fprintf(w, "  integrity: %s\n", res.Integrity)
	}
}

func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	fmt.Fprintln(w, "# expvar")
	var err error
	expvar.Do(func(kv expvar.KeyValue) {
		if err == nil && strings.HasPrefix(kv.Key, "hospital_links_") {
			_, err = fmt.Fprintf(w, "%s %s\n", kv.Key, kv.Value.String())
		}
	})
	if err != nil || reg == nil {
		return err
	}

	mfs, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gathering: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

func orOK(s string) string {
	if s == "" {
		return scenario.ExpectOK
	}
	return s
}
