package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/fraud-cli/internal/config"
	"github.com/sells-group/fraud-cli/internal/model"
	"github.com/sells-group/fraud-cli/internal/monitoring"
	"github.com/sells-group/fraud-cli/internal/scoring"
	"github.com/sells-group/fraud-cli/pkg/fraudapi"
)

// session is the menu-driven terminal front end. Backend failures are
// reported and the menu is shown again.
type session struct {
	apiURL     string
	checker    *scoring.Checker
	aggregator *monitoring.Aggregator
	in         *bufio.Scanner
	out        io.Writer
}

func newSession(api fraudapi.Client, c *config.Config, in io.Reader, out io.Writer) *session {
	return &session{
		apiURL:     api.BaseURL(),
		checker:    scoring.NewChecker(api, c),
		aggregator: monitoring.NewAggregator(api, c.API.MonitoringTimeout()),
		in:         bufio.NewScanner(in),
		out:        out,
	}
}

// Run shows the menu until the user quits or input ends.
func (s *session) Run(ctx context.Context) error {
	s.printf("Fraud Detection\nAPI: %s\n", s.apiURL)
	for {
		s.printf("\n  1) Check a transaction\n  2) Model stats\n  3) Categories\n  q) Quit\n")
		choice, ok := s.ask("> ")
		if !ok {
			return nil
		}

		switch strings.ToLower(choice) {
		case "1", "check":
			if !s.check(ctx) {
				return nil
			}
		case "2", "stats":
			s.printf("Loading model info and monitoring (first request may take up to a minute)...\n")
			formatSnapshot(s.out, s.aggregator.FetchSnapshot(ctx, 0))
		case "3", "categories":
			formatCategories(s.out, s.checker.Categories.Resolve(ctx))
		case "q", "quit", "exit":
			return nil
		case "":
		default:
			s.printf("Unknown choice %q\n", choice)
		}
	}
}

// check prompts for every field and scores the result. It returns false
// when input ended mid-form.
func (s *session) check(ctx context.Context) bool {
	cats := s.checker.Categories.Resolve(ctx)
	if cats.Source == model.CategorySourceFallback {
		s.printf("Using built-in category list.\n")
	}
	s.printf("Categories: %s\n", strings.Join(cats.Names, ", "))

	d := model.DefaultFormInput()
	var in model.FormInput
	var ok bool

	if in.Category, ok = s.askString("Category", d.Category); !ok {
		return false
	}
	fields := []struct {
		label string
		def   float64
		float *float64
		int   *int
	}{
		{label: "Amount (USD)", def: d.Amount, float: &in.Amount},
		{label: "Age at transaction", def: float64(d.Age), int: &in.Age},
		{label: "Days until card expires", def: float64(d.DaysUntilExpiry), int: &in.DaysUntilExpiry},
		{label: "Location delta", def: d.LocDelta, float: &in.LocDelta},
		{label: "Location delta moving avg", def: d.LocDeltaMavg, float: &in.LocDeltaMavg},
		{label: "Transaction volume moving avg", def: d.TransVolumeMavg, float: &in.TransVolumeMavg},
		{label: "Transaction volume moving std", def: d.TransVolumeMstd, float: &in.TransVolumeMstd},
		{label: "Transaction frequency", def: float64(d.TransFreq), int: &in.TransFreq},
	}
	for _, f := range fields {
		if f.int != nil {
			if *f.int, ok = s.askInt(f.label, int(f.def)); !ok {
				return false
			}
			continue
		}
		if *f.float, ok = s.askFloat(f.label, f.def); !ok {
			return false
		}
	}

	s.printf("Scoring (first request may take up to a minute while the API wakes up)...\n")
	result, err := s.checker.Check(ctx, in, cats)
	if err != nil {
		zap.L().Debug("check failed", zap.Error(err))
		formatFailure(s.out, err)
		return true
	}
	s.printf("\n")
	formatCheck(s.out, result)
	return true
}

func (s *session) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

func (s *session) ask(prompt string) (string, bool) {
	s.printf("%s", prompt)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *session) askString(label, def string) (string, bool) {
	v, ok := s.ask(fmt.Sprintf("%s [%s]: ", label, def))
	if v == "" {
		v = def
	}
	return v, ok
}

func (s *session) askFloat(label string, def float64) (float64, bool) {
	for {
		v, ok := s.ask(fmt.Sprintf("%s [%g]: ", label, def))
		if !ok {
			return 0, false
		}
		if v == "" {
			return def, true
		}
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f, true
		}
		s.printf("  %q is not a number\n", v)
	}
}

func (s *session) askInt(label string, def int) (int, bool) {
	for {
		v, ok := s.ask(fmt.Sprintf("%s [%d]: ", label, def))
		if !ok {
			return 0, false
		}
		if v == "" {
			return def, true
		}
		n, err := strconv.Atoi(v)
		if err == nil {
			return n, true
		}
		s.printf("  %q is not a whole number\n", v)
	}
}
