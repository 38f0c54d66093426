// Package ingest reads weighted edge lists and seed files. Nodes are named in
// the input and numbered in order of first appearance.
package ingest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-cohesion/pkg/graph"
	"github.com/dd0wney/cluso-cohesion/pkg/logging"
	"github.com/dd0wney/cluso-cohesion/pkg/metrics"
	"github.com/dd0wney/cluso-cohesion/pkg/validation"
)

// Sentinel errors wrapped by ParseError
var (
	ErrFieldCount  = errors.New("expected 'source target [weight]'")
	ErrBadWeight   = errors.New("invalid weight")
	ErrUnknownNode = errors.New("unknown node")
	ErrEmptySeed   = errors.New("empty seed")
)

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// Record is one parsed edge-list line.
type Record struct {
	Source string  `validate:"nodename"`
	Target string  `validate:"nodename"`
	Weight float64 `validate:"finite,gte=0"`
}

// ParseError locates a rejected input line.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Dataset is a graph together with its node names. Skipped counts the
// self-loops and, in lenient mode, the malformed lines left out.
type Dataset struct {
	Graph   *graph.Graph
	Names   []string
	Skipped int
	index   map[string]int
}

// Name returns the name of node v.
func (d *Dataset) Name(v int) string {
	return d.Names[v]
}

// Index returns the node numbered for name.
func (d *Dataset) Index(name string) (int, bool) {
	v, ok := d.index[name]
	return v, ok
}

// Reader parses input files.
type Reader struct {
	logger  logging.Logger
	metrics *metrics.Registry
	lenient bool
}

// Option customises a Reader.
type Option func(*Reader)

// WithLogger sets the logger used for skipped-line warnings.
func WithLogger(l logging.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics records line counts in reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(r *Reader) { r.metrics = reg }
}

// Lenient makes malformed lines warnings instead of errors.
func Lenient() Option {
	return func(r *Reader) { r.lenient = true }
}

// NewReader creates a Reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{logger: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(logging.Component("ingest"))
	return r
}

// ParseRecord parses one non-comment edge-list line.
func ParseRecord(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || len(fields) > 3 {
		return Record{}, ErrFieldCount
	}
	rec := Record{Source: fields[0], Target: fields[1], Weight: 1}
	if len(fields) == 3 {
		w, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return Record{}, fmt.Errorf("%w: %q", ErrBadWeight, fields[2])
		}
		rec.Weight = w
	}
	if err := validation.Struct(rec); err != nil {
		var fe *validation.FieldError
		if errors.As(err, &fe) && fe.Field == "Weight" {
			return Record{}, fmt.Errorf("%w: %v %s", ErrBadWeight, rec.Weight, fe.Reason())
		}
		return Record{}, fmt.Errorf("%w: %v", ErrFieldCount, err)
	}
	return rec, nil
}

// ReadEdgeList reads "source target [weight]" lines separated by whitespace.
// Blank lines and lines starting with '#' are ignored; a missing weight is 1.
// Self-loops are skipped, and repeated pairs have their weights summed.
func (r *Reader) ReadEdgeList(src io.Reader) (*Dataset, error) {
	d := &Dataset{index: make(map[string]int)}
	intern := func(name string) int {
		v, ok := d.index[name]
		if !ok {
			v = len(d.Names)
			d.index[name] = v
			d.Names = append(d.Names, name)
		}
		return v
	}

	var edges []graph.Edge
	parsed, skipped := 0, 0
	err := scanLines(src, func(n int, line string) error {
		rec, err := ParseRecord(line)
		if err != nil {
			perr := &ParseError{Line: n, Text: line, Err: err}
			if !r.lenient {
				return perr
			}
			skipped++
			r.logger.Warn("skipped malformed line", logging.Line(n), logging.Error(err))
			return nil
		}
		u, v := intern(rec.Source), intern(rec.Target)
		if u == v {
			skipped++
			r.logger.Warn("skipped self-loop", logging.Line(n), logging.String("node", rec.Source))
			return nil
		}
		parsed++
		edges = append(edges, graph.Edge{U: u, V: v, Weight: rec.Weight})
		return nil
	})
	if r.metrics != nil {
		r.metrics.RecordIngest(parsed, skipped)
	}
	if err != nil {
		return nil, err
	}

	g, err := graph.FromEdges(len(d.Names), edges)
	if err != nil {
		return nil, err
	}
	d.Graph = g
	d.Skipped = skipped
	r.logger.Debug("edge list read",
		logging.Int("nodes", g.NodeCount()),
		logging.Int("edges", g.EdgeCount()),
		logging.Int("skipped", skipped))
	return d, nil
}

// ReadSeeds reads one seed per line as whitespace-separated node names known
// to d. Blank lines and '#' comments are ignored.
func (r *Reader) ReadSeeds(src io.Reader, d *Dataset) ([][]int, error) {
	var seeds [][]int
	err := scanLines(src, func(n int, line string) error {
		names := strings.Fields(line)
		seed := make([]int, 0, len(names))
		for _, name := range names {
			v, ok := d.Index(name)
			if !ok {
				perr := &ParseError{Line: n, Text: line, Err: fmt.Errorf("%w: %q", ErrUnknownNode, name)}
				if !r.lenient {
					return perr
				}
				r.logger.Warn("skipped unknown seed node", logging.Line(n), logging.String("node", name))
				continue
			}
			seed = append(seed, v)
		}
		if len(seed) == 0 {
			if !r.lenient {
				return &ParseError{Line: n, Text: line, Err: ErrEmptySeed}
			}
			return nil
		}
		seeds = append(seeds, seed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seeds, nil
}

// LoadEdgeList reads an edge-list file.
func (r *Reader) LoadEdgeList(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open edge list: %w", err)
	}
	defer f.Close()

	d, err := r.ReadEdgeList(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.logger.Info("loaded edge list", logging.Path(path), logging.Int("nodes", len(d.Names)))
	return d, nil
}

// LoadSeeds reads a seed file.
func (r *Reader) LoadSeeds(path string, d *Dataset) ([][]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	seeds, err := r.ReadSeeds(f, d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seeds, nil
}

// scanLines calls fn with the 1-based number and trimmed text of every
// non-blank, non-comment line.
func scanLines(src io.Reader, fn func(n int, line string) error) error {
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(n, line); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
