// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/peterh/liner"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/luxfi/nwaycache"
	"github.com/luxfi/nwaycache/metercacher"
)

const prompt = "nwaycache> "

var (
	errUnknownCommand = errors.New("unknown command")
	errUsage          = errors.New("usage")
	errNoSlots        = errors.New("policy has no slots")
)

var commands = []string{
	"put", "get", "has", "evict", "lru", "len", "slots", "keys",
	"seq", "bulk", "clear", "stats", "help", "exit", "quit", "q",
}

const helpText = `Commands:
  put <key> <value>     Insert or replace an entry
  get <key>             Look up an entry (refreshes recency)
  has <key>             Report residency (does not refresh recency)
  evict <key>           Remove an entry
  lru                   Evict the least recently used entry
  len                   Show slot and entry counts
  slots                 List keys per slot, oldest first
  keys                  List keys, least recently used first
  seq <count> [start]   Insert count sequential entries k<start>..
  bulk <count>          Insert count entries with random keys
  clear                 Remove everything
  stats                 Show cache metrics
  help                  Show this help
  exit / quit / q       Exit
`

// slotLister is implemented by caches that expose their slot layout.
type slotLister interface {
	SlotKeys() [][]string
}

type shell struct {
	cache    *metercacher.Cache[string, string]
	inspect  nwaycache.Inspector[string]
	gatherer prometheus.Gatherer
	out      io.Writer
}

// exec runs one command line. It reports whether the shell should exit.
func (s *shell) exec(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "put":
		if len(args) != 2 {
			return false, fmt.Errorf("%w: put <key> <value>", errUsage)
		}
		s.cache.Put(args[0], args[1])
		fmt.Fprintln(s.out, "OK")
	case "get":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: get <key>", errUsage)
		}
		if v, ok := s.cache.Get(args[0]); ok {
			fmt.Fprintln(s.out, v)
		} else {
			fmt.Fprintln(s.out, "(not found)")
		}
	case "has":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: has <key>", errUsage)
		}
		fmt.Fprintln(s.out, s.inspect.Contains(args[0]))
	case "evict":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: evict <key>", errUsage)
		}
		s.cache.Evict(args[0])
		fmt.Fprintln(s.out, "OK")
	case "lru":
		s.inspect.RemoveLRU()
		s.cache.Observe()
		fmt.Fprintln(s.out, "OK")
	case "len":
		if sc, ok := s.inspect.(nwaycache.SlotCounter); ok {
			fmt.Fprintf(s.out, "slots: %d\n", sc.SlotCount())
		}
		fmt.Fprintf(s.out, "entries: %d\n", s.cache.Len())
	case "slots":
		sl, ok := s.inspect.(slotLister)
		if !ok {
			return false, errNoSlots
		}
		for i, keys := range sl.SlotKeys() {
			fmt.Fprintf(s.out, "%d: %s\n", i, strings.Join(keys, " "))
		}
	case "keys":
		fmt.Fprintln(s.out, strings.Join(s.inspect.Keys(), " "))
	case "seq":
		return false, s.seq(args)
	case "bulk":
		return false, s.bulk(args)
	case "clear":
		s.cache.Flush()
		fmt.Fprintln(s.out, "OK")
	case "stats":
		return false, s.stats()
	case "help":
		fmt.Fprint(s.out, helpText)
	case "exit", "quit", "q":
		return true, nil
	default:
		return false, fmt.Errorf("%w: %s", errUnknownCommand, cmd)
	}
	return false, nil
}

func (s *shell) seq(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: seq <count> [start]", errUsage)
	}
	count, err := strconv.Atoi(args[0])
	if err != nil || count < 0 {
		return fmt.Errorf("%w: seq <count> [start]", errUsage)
	}
	start := 0
	if len(args) == 2 {
		start, err = strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: seq <count> [start]", errUsage)
		}
	}
	for i := start; i < start+count; i++ {
		n := strconv.Itoa(i)
		s.cache.Put("k"+n, n)
	}
	fmt.Fprintf(s.out, "inserted %d\n", count)
	return nil
}

func (s *shell) bulk(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: bulk <count>", errUsage)
	}
	count, err := strconv.Atoi(args[0])
	if err != nil || count < 0 {
		return fmt.Errorf("%w: bulk <count>", errUsage)
	}
	for i := 0; i < count; i++ {
		s.cache.Put(uuid.NewString(), strconv.Itoa(i))
	}
	fmt.Fprintf(s.out, "inserted %d\n", count)
	return nil
}

func (s *shell) stats() error {
	families, err := s.gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fmt.Fprintf(s.out, "%s%s %g\n", mf.GetName(), formatLabels(m.GetLabel()), metricValue(mf.GetType(), m))
		}
	}
	return nil
}

func formatLabels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", p.GetName(), p.GetValue()))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}

func metricValue(typ dto.MetricType, m *dto.Metric) float64 {
	switch typ {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	default:
		return m.GetUntyped().GetValue()
	}
}

// runScript executes commands read from r, one per line, without line
// editing. Command errors are printed and do not stop the script.
func (s *shell) runScript(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		quit, err := s.exec(scanner.Text())
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

// runInteractive reads commands from the terminal with history and
// completion.
func (s *shell) runInteractive() error {
	line := liner.NewLiner()
	defer func() { _ = line.Close() }()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(input string) []string {
		var out []string
		for _, c := range commands {
			if strings.HasPrefix(c, strings.ToLower(input)) {
				out = append(out, c)
			}
		}
		return out
	})

	fmt.Fprintln(s.out, "Type 'help' for commands.")
	for {
		input, err := line.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		line.AppendHistory(input)

		quit, err := s.exec(input)
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}
