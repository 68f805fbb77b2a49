package ingest

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/tauroid/csv-dataflow/internal/errs"
	"github.com/tauroid/csv-dataflow/internal/relation"
	"github.com/tauroid/csv-dataflow/internal/sop"
)

const bom = "\ufeff"

type column struct {
	name      string
	separator bool
	point     relation.Point
	labels    sop.Path

	// path is the resolved location of the column in its type tree, nil
	// if the column matched nothing.
	path sop.Path
}

// parseHeader splits the header into source and target columns around the
// one blank-named separator.
func parseHeader(header []string, line int) ([]column, error) {
	cols := make([]column, len(header))
	separators := 0
	point := relation.Source
	for i, raw := range header {
		if i == 0 {
			raw = strings.TrimPrefix(raw, bom)
		}
		name := normalize(raw)
		if name == "" {
			separators++
			if separators > 1 {
				return nil, &errs.Error{
					Code:    errs.InvalidCSV,
					Message: fmt.Sprintf("more than one blank separator column (column %d)", i+1),
					Row:     line,
				}
			}
			cols[i] = column{separator: true}
			point = relation.Target
			continue
		}

		labels := sop.Path(strings.Split(name, "/"))
		for j, l := range labels {
			labels[j] = strings.TrimSpace(l)
			if labels[j] == "" {
				return nil, &errs.Error{
					Code:    errs.InvalidCSV,
					Message: "column name has an empty label",
					Row:     line,
					Column:  name,
				}
			}
		}
		cols[i] = column{name: name, point: point, labels: labels}
	}
	if separators == 0 {
		return nil, &errs.Error{
			Code:    errs.InvalidCSV,
			Message: "no blank separator column between source and target columns",
			Row:     line,
		}
	}
	return cols, nil
}

// resolve finds each column's node in its type tree. Columns that match
// nothing are left unresolved and only fail once a row uses them.
func (in *Ingester) resolve(cols []column) error {
	for i := range cols {
		col := &cols[i]
		if col.separator {
			continue
		}
		tree := in.source
		if col.point == relation.Target {
			tree = in.target
		}

		var err error
		if in.opts.Anchored {
			col.path, err = resolveAnchored(tree, col.labels)
		} else {
			col.path = resolveAnywhere(tree, col.labels)
		}
		if err != nil {
			return err
		}
		slog.Debug("column resolved", "column", col.name, "point", col.point,
			"path", col.path.String(), "found", col.path != nil)
	}
	return nil
}

// resolveAnywhere returns the first path, breadth first, ending in labels.
// Recursive references are not followed, so nodes are matched in the part
// of the type written out before any recursion.
func resolveAnywhere(tree *Tree, labels sop.Path) sop.Path {
	for p := range sop.AllPaths(tree, -1) {
		if len(p) >= len(labels) && p[len(p)-len(labels):].Equal(labels) {
			return p.Clone()
		}
	}
	return nil
}

func resolveAnchored(tree *Tree, labels sop.Path) (sop.Path, error) {
	if _, err := sop.At(tree, labels); err != nil {
		if errs.Has(err, errs.PathNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return labels.Clone(), nil
}
