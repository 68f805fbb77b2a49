package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/tauroid/csv-dataflow/internal/ingest"
	"github.com/tauroid/csv-dataflow/internal/relation"
	"github.com/tauroid/csv-dataflow/internal/sop"
)

// Hash domains for store content.
const (
	DomainInput    = "csvflow/input/v1"
	DomainFile     = "csvflow/file/v1"
	DomainSnapshot = "csvflow/snapshot/v1"
)

// payload is the stored form of an ingest.Result.
type payload struct {
	Source   *sop.Node[sop.NoData] `json:"source"`
	Target   *sop.Node[sop.NoData] `json:"target"`
	Relation json.RawMessage       `json:"relation"`
}

// encodeResult serializes res to JSON and compresses it.
func encodeResult(res *ingest.Result) ([]byte, error) {
	rel, err := relation.Marshal[sop.NoData](res.Relation)
	if err != nil {
		return nil, fmt.Errorf("marshal relation: %w", err)
	}
	data, err := json.Marshal(payload{Source: res.Source, Target: res.Target, Relation: rel})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	var compressed bytes.Buffer
	encoder, err := zstd.NewWriter(&compressed)
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	if _, err := encoder.Write(data); err != nil {
		encoder.Close()
		return nil, fmt.Errorf("compressing: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("closing encoder: %w", err)
	}
	return compressed.Bytes(), nil
}

// decodeResult reverses encodeResult.
func decodeResult(blob []byte) (*ingest.Result, error) {
	decoder, err := zstd.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer decoder.Close()

	data, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("decompressing: %w", err)
	}

	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	rel, err := relation.Unmarshal[sop.NoData](p.Relation)
	if err != nil {
		return nil, fmt.Errorf("unmarshal relation: %w", err)
	}
	parallel, ok := rel.(*relation.Parallel[sop.NoData])
	if !ok {
		return nil, fmt.Errorf("unmarshal relation: want parallel, got %T", rel)
	}
	return &ingest.Result{Source: p.Source, Target: p.Target, Relation: parallel}, nil
}

// fingerprint hashes the fingerprints of the result's trees with the
// relation encoding. Equal results have equal fingerprints.
func fingerprint(res *ingest.Result) (string, error) {
	source, err := sop.Fingerprint(res.Source)
	if err != nil {
		return "", fmt.Errorf("fingerprint source: %w", err)
	}
	target, err := sop.Fingerprint(res.Target)
	if err != nil {
		return "", fmt.Errorf("fingerprint target: %w", err)
	}
	rel, err := relation.Marshal[sop.NoData](res.Relation)
	if err != nil {
		return "", fmt.Errorf("fingerprint relation: %w", err)
	}

	var buf bytes.Buffer
	for _, part := range [][]byte{[]byte(source), []byte(target), rel} {
		buf.Write(part)
		buf.WriteByte(0)
	}
	return sop.HashWithDomain(DomainSnapshot, buf.Bytes()), nil
}

// FileHash is the content hash recorded for an input file.
func FileHash(content []byte) string {
	return sop.HashWithDomain(DomainFile, content)
}

// keyRecord is hashed to form an input key. Field order is fixed by the
// struct, so json.Marshal is deterministic.
type keyRecord struct {
	Types      string   `json:"types"`
	SourceType string   `json:"source_type"`
	TargetType string   `json:"target_type"`
	Anchored   bool     `json:"anchored"`
	Files      []string `json:"files"`
}

// Key returns the content address of in. File paths do not contribute,
// only their order and contents, so moving a file keeps its snapshot.
func (in Input) Key() string {
	rec := keyRecord{
		Types:      FileHash(in.Types),
		SourceType: in.SourceType,
		TargetType: in.TargetType,
		Anchored:   in.Anchored,
		Files:      make([]string, len(in.Files)),
	}
	for i, f := range in.Files {
		rec.Files[i] = FileHash(f.Content)
	}
	// Marshalling strings and bools cannot fail.
	data, _ := json.Marshal(rec)
	return sop.HashWithDomain(DomainInput, data)
}
