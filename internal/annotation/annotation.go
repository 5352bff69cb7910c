// Package annotation defines the entities of the annotation graph: genomes,
// coordinates, super-loci, transcripts, transcribed pieces and features.
//
// All intervals are half-open [start, end) in 0-based sequence positions.
// Feature start/end are biological, i.e. given 5'->3': a minus-strand feature
// has raw Start > End, and StrandAdjustedRange remaps it into the same
// low->high sense used by plus-strand arithmetic.
package annotation

// Genome is one annotated genome assembly.
type Genome struct {
	ID        int64
	Species   string
	Accession string
	Version   string
}

// Coordinate is a contiguous region of a sequence, identified by seqid and a
// half-open [Start, End) range. A full sequence and a training slice of it are
// both Coordinates. Immutable once created.
type Coordinate struct {
	ID       int64
	GenomeID int64
	Seqid    string
	Start    int64
	End      int64
	// Sequence holds the DNA for full-sequence coordinates; slice
	// coordinates leave it empty and share the full sequence via Seqid.
	Sequence string
}

// Length returns the number of base pairs covered.
func (c *Coordinate) Length() int64 {
	return c.End - c.Start
}

// SuperLocus groups one or more transcripts sharing an overlapping genomic
// footprint (it also bounds trans-spliced gene models). Any graph traversal
// stays within one super-locus.
type SuperLocus struct {
	ID          int64
	GivenName   string
	Type        string
	Transcripts []*Transcript
}

// Transcript is one spliced isoform model of a gene, composed of ordered
// pieces. The original annotation import produces a single piece; slicing
// splits transcripts into further pieces at slice borders.
type Transcript struct {
	ID           int64
	GivenName    string
	Type         string
	SuperLocusID int64
	Pieces       []*TranscribedPiece
}

// TranscribedPiece is an ordered partition unit of a transcript's features.
// Position is a dense order key, unique within the transcript.
type TranscribedPiece struct {
	ID           int64
	GivenName    string
	Position     int
	TranscriptID int64
	Features     []*Feature
}

// Feature is an atomic typed annotation interval. Features are shared between
// pieces through a many-to-many association; after slicing, the same feature
// never spans more than one coordinate.
type Feature struct {
	ID        int64
	GivenName string
	Type      FeatureType
	// Start and End are biological: on the minus strand Start > End and the
	// occupied range is [End+1, Start+1) in plus-strand sense.
	Start                  int64
	End                    int64
	IsPlusStrand           bool
	StartIsBiologicalStart bool
	EndIsBiologicalEnd     bool
	Score                  float64
	Source                 string
	Coordinate             *Coordinate
	Pieces                 []*TranscribedPiece
}

// StrandAdjustedRange returns the feature's occupied range as a half-open
// [start, end) interval in the uniform low->high sense, regardless of strand.
func (f *Feature) StrandAdjustedRange() (start, end int64) {
	if f.IsPlusStrand {
		return f.Start, f.End
	}
	return f.End + 1, f.Start + 1
}

// AddPiece associates the feature with a piece, both directions.
func (f *Feature) AddPiece(p *TranscribedPiece) {
	f.Pieces = append(f.Pieces, p)
	p.Features = append(p.Features, f)
}

// ReplacePiece swaps oldPiece for newPiece in the feature's associations and
// moves the feature between the pieces' feature lists. Returns false if the
// feature was not associated with oldPiece.
func (f *Feature) ReplacePiece(oldPiece, newPiece *TranscribedPiece) bool {
	found := false
	for i, p := range f.Pieces {
		if p == oldPiece {
			f.Pieces[i] = newPiece
			found = true
			break
		}
	}
	if !found {
		return false
	}
	for i, of := range oldPiece.Features {
		if of == f {
			oldPiece.Features = append(oldPiece.Features[:i], oldPiece.Features[i+1:]...)
			break
		}
	}
	newPiece.Features = append(newPiece.Features, f)
	return true
}
