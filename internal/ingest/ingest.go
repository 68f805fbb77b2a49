// Package ingest builds SOP trees and a relation between them from CSV
// files.
//
// The header names one column per path into the source or target type. A
// single blank-named column separates the source columns (left) from the
// target columns (right). Column names use "/" between labels and address
// a node anywhere in the type: "code/x" matches the first node, in
// breadth-first declaration order, reached by the labels code then x.
//
// Each non-blank cell is a value: it is added as a Unit child of its
// column's node. Every row becomes one Basic relation relating the values
// it names on each side, and the rows are wrapped in one Parallel.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tauroid/csv-dataflow/internal/errs"
	"github.com/tauroid/csv-dataflow/internal/relation"
	"github.com/tauroid/csv-dataflow/internal/sop"
	"github.com/tauroid/csv-dataflow/internal/typedesc"
)

// Tree is the SOP tree type produced by ingestion. Ingested trees carry no
// node data.
type Tree = sop.Node[sop.NoData]

// Options configures column resolution.
type Options struct {
	// Anchored requires every column name to be the full path from the
	// root of its type. Anchored paths may run through recursive
	// references, e.g. "list/tail/list/head".
	Anchored bool
}

// Result is the outcome of ingesting one or more CSV files.
type Result struct {
	// Source and Target are the type trees extended with every value seen.
	Source *Tree
	Target *Tree

	// Relation has one Basic child per data row, in file order, each with
	// identity offsets.
	Relation *relation.Parallel[sop.NoData]
}

// Ingester reads CSV files against a fixed pair of types.
type Ingester struct {
	source *Tree
	target *Tree
	opts   Options
}

// New builds the SOP trees for source and target.
func New(source, target *typedesc.Desc, opts Options) (*Ingester, error) {
	s, err := sop.FromType[sop.NoData](source)
	if err != nil {
		return nil, fmt.Errorf("source type: %w", err)
	}
	t, err := sop.FromType[sop.NoData](target)
	if err != nil {
		return nil, fmt.Errorf("target type: %w", err)
	}
	return &Ingester{source: s, target: t, opts: opts}, nil
}

// Types returns the trees built from the type descriptions, before any
// values are added.
func (in *Ingester) Types() (source, target *Tree) {
	return in.source, in.target
}

// IngestFile is New followed by ReadFile.
func IngestFile(source, target *typedesc.Desc, path string, opts Options) (*Result, error) {
	in, err := New(source, target, opts)
	if err != nil {
		return nil, err
	}
	return in.ReadFile(path)
}

// IngestFiles is New followed by ReadFiles.
func IngestFiles(source, target *typedesc.Desc, paths []string, opts Options) (*Result, error) {
	in, err := New(source, target, opts)
	if err != nil {
		return nil, err
	}
	return in.ReadFiles(paths)
}

// ReadFile ingests the CSV file at path.
func (in *Ingester) ReadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res, err := in.Read(path, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// ReadFiles ingests each file separately and combines the results with
// Combine.
func (in *Ingester) ReadFiles(paths []string) (*Result, error) {
	results := make([]*Result, 0, len(paths))
	for _, path := range paths {
		res, err := in.ReadFile(path)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return in.Combine(results)
}

// Combine joins per-file results: the trees are merged and the relations'
// children concatenated in order. No results gives the bare type trees and
// an empty relation.
func (in *Ingester) Combine(results []*Result) (*Result, error) {
	if len(results) == 0 {
		return in.empty(), nil
	}

	var sources, targets []*Tree
	var children []relation.ParallelChild[sop.NoData]
	for _, res := range results {
		sources = append(sources, res.Source)
		targets = append(targets, res.Target)
		children = append(children, res.Relation.Children...)
	}

	source, err := sop.Merge(sources...)
	if err != nil {
		return nil, fmt.Errorf("merging source trees: %w", err)
	}
	target, err := sop.Merge(targets...)
	if err != nil {
		return nil, fmt.Errorf("merging target trees: %w", err)
	}
	return &Result{Source: source, Target: target, Relation: relation.NewParallel(children...)}, nil
}

func (in *Ingester) empty() *Result {
	return &Result{Source: in.source, Target: in.target, Relation: relation.NewParallel[sop.NoData]()}
}

// row holds the value paths named by one data row.
type row struct {
	source []sop.Path
	target []sop.Path
}

// Read ingests CSV data from r. name is used in log output only. An empty
// input, or a header without data rows, gives an empty relation.
func (in *Ingester) Read(name string, r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		slog.Debug("empty csv", "file", name)
		return in.empty(), nil
	}
	if err != nil {
		return nil, csvError(err)
	}
	line, _ := cr.FieldPos(0)

	cols, err := parseHeader(header, line)
	if err != nil {
		return nil, err
	}
	if err := in.resolve(cols); err != nil {
		return nil, err
	}

	var rows []row
	var allSource, allTarget []sop.Path
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}

		var rw row
		for i, col := range cols {
			if col.separator {
				continue
			}
			value := normalize(rec[i])
			if value == "" {
				continue
			}
			if col.path == nil {
				line, _ := cr.FieldPos(i)
				return nil, &errs.Error{
					Code:    errs.ColumnNotFound,
					Message: fmt.Sprintf("column does not address the %s type", strings.ToLower(col.point.String())),
					Path:    col.labels,
					Row:     line,
					Column:  col.name,
				}
			}
			p := col.path.Append(value)
			if col.point == relation.Source {
				rw.source = append(rw.source, p)
			} else {
				rw.target = append(rw.target, p)
			}
		}
		allSource = append(allSource, rw.source...)
		allTarget = append(allTarget, rw.target...)
		rows = append(rows, rw)
	}

	source, err := sop.AddValuesAtRootedPaths(in.source, allSource)
	if err != nil {
		return nil, fmt.Errorf("adding source values: %w", err)
	}
	target, err := sop.AddValuesAtRootedPaths(in.target, allTarget)
	if err != nil {
		return nil, fmt.Errorf("adding target values: %w", err)
	}

	children := make([]relation.ParallelChild[sop.NoData], 0, len(rows))
	for _, rw := range rows {
		s, err := sop.FilterToPaths(source, rw.source)
		if err != nil {
			return nil, err
		}
		t, err := sop.FilterToPaths(target, rw.target)
		if err != nil {
			return nil, err
		}
		children = append(children, relation.Child[sop.NoData](relation.NewBasic(s, t), relation.Identity))
	}

	slog.Debug("csv ingested", "file", name, "rows", len(rows),
		"source_values", len(allSource), "target_values", len(allTarget))

	return &Result{Source: source, Target: target, Relation: relation.NewParallel(children...)}, nil
}

func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &errs.Error{Code: errs.InvalidCSV, Message: pe.Err.Error(), Row: pe.Line}
	}
	return err
}

// normalize puts names and values in NFC and trims surrounding space, so
// visually identical spellings land on the same label.
func normalize(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
