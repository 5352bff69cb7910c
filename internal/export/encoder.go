// Package export encodes annotated genome slices into numeric training
// chunks and writes them to DuckDB.
package export

import (
	"fmt"

	"github.com/weberlab-hhu/helixer/internal/annotation"
)

// Label column layout: three binary columns per base pair.
const (
	LabelTranscript = 0 // inside a transcribed region
	LabelCDS        = 1 // inside a coding region
	LabelIntron     = 2 // inside an intron
	LabelColumns    = 3
)

// BaseColumns is the one-hot width per base pair, in C, A, T, G order.
const BaseColumns = 4

var baseColumn = map[byte]int{'C': 0, 'A': 1, 'T': 2, 'G': 3}

// Chunk is one encoded training example covering a slice coordinate.
type Chunk struct {
	Seqid string
	Start int64
	End   int64
	Set   annotation.ProcessingSet
	// X is one-hot encoded sequence, BaseColumns bytes per bp. Ambiguous
	// bases encode as all zeros.
	X []byte
	// Y is LabelColumns bytes per bp.
	Y []byte
	// SampleWeights is one byte per bp; error-masked spans are zeroed.
	SampleWeights []byte
}

// EncodeBases one-hot encodes a DNA sequence, BaseColumns bytes per base in
// C, A, T, G column order. Ambiguity codes produce an all-zero row.
func EncodeBases(seq string) []byte {
	x := make([]byte, len(seq)*BaseColumns)
	for i := 0; i < len(seq); i++ {
		b := seq[i]
		if b >= 'a' {
			b -= 'a' - 'A'
		}
		if col, ok := baseColumn[b]; ok {
			x[i*BaseColumns+col] = 1
		}
	}
	return x
}

// EncodeChunk encodes one slice coordinate into a training chunk. seq is the
// full sequence of the slice's seqid; features are every feature overlapping
// the slice (both strands — a base is labeled when either strand's
// annotation covers it).
func EncodeChunk(slice *annotation.Coordinate, set annotation.ProcessingSet, seq string, features []*annotation.Feature) (*Chunk, error) {
	if slice.End > int64(len(seq)) {
		return nil, fmt.Errorf("slice %s:[%d, %d) extends past sequence length %d",
			slice.Seqid, slice.Start, slice.End, len(seq))
	}
	n := slice.Length()
	chunk := &Chunk{
		Seqid:         slice.Seqid,
		Start:         slice.Start,
		End:           slice.End,
		Set:           set,
		X:             EncodeBases(seq[slice.Start:slice.End]),
		Y:             make([]byte, n*LabelColumns),
		SampleWeights: make([]byte, n),
	}
	for i := range chunk.SampleWeights {
		chunk.SampleWeights[i] = 1
	}

	for _, f := range features {
		start, end := f.StrandAdjustedRange()
		if start < slice.Start {
			start = slice.Start
		}
		if end > slice.End {
			end = slice.End
		}
		if start >= end {
			continue
		}
		switch f.Type {
		case annotation.FeatureTranscript:
			markLabel(chunk, start, end, LabelTranscript)
		case annotation.FeatureCDS:
			markLabel(chunk, start, end, LabelCDS)
		case annotation.FeatureIntron:
			markLabel(chunk, start, end, LabelIntron)
		case annotation.FeatureError:
			for p := start; p < end; p++ {
				chunk.SampleWeights[p-chunk.Start] = 0
			}
		default:
			return nil, fmt.Errorf("cannot encode feature type %q", f.Type)
		}
	}
	return chunk, nil
}

func markLabel(chunk *Chunk, start, end int64, column int) {
	for p := start; p < end; p++ {
		chunk.Y[(p-chunk.Start)*LabelColumns+int64(column)] = 1
	}
}
