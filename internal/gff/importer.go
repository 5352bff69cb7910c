package gff

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/weberlab-hhu/helixer/internal/annotation"
	"github.com/weberlab-hhu/helixer/internal/fasta"
	"github.com/weberlab-hhu/helixer/internal/store"
)

// transcriptTypes are the GFF3 feature types imported as transcripts.
var transcriptTypes = map[string]bool{
	"mRNA":       true,
	"transcript": true,
}

// Importer loads GFF3 annotations plus their FASTA sequences into the store,
// producing the ranged feature representation the slicer operates on: per
// transcript one transcript span, one coding span when CDS rows exist, and
// one span per intron.
type Importer struct {
	db     *store.DB
	logger *zap.Logger
}

// NewImporter creates an importer writing through db.
func NewImporter(db *store.DB, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{db: db, logger: logger}
}

// gene groups a gene record with its transcripts during assembly.
type gene struct {
	record      Record
	transcripts []*transcriptParts
}

// transcriptParts groups a transcript record with its exon and CDS children.
type transcriptParts struct {
	record Record
	exons  []Record
	cds    []Record
}

// Import reads fastaPath and gffPath and persists a genome with its full
// annotation graph. Every transcript starts out with a single piece.
func (im *Importer) Import(species, fastaPath, gffPath string) (*annotation.Genome, error) {
	seqs, err := fasta.ReadFile(fastaPath)
	if err != nil {
		return nil, err
	}
	records, err := ParseFile(gffPath)
	if err != nil {
		return nil, err
	}

	genome := &annotation.Genome{Species: species}
	if err := im.db.CreateGenome(genome); err != nil {
		return nil, err
	}

	coords := make(map[string]*annotation.Coordinate, len(seqs))
	for _, s := range seqs {
		c := &annotation.Coordinate{
			GenomeID: genome.ID,
			Seqid:    s.ID,
			Start:    0,
			End:      int64(len(s.Seq)),
			Sequence: s.Seq,
		}
		if err := im.db.CreateCoordinate(c); err != nil {
			return nil, err
		}
		coords[s.ID] = c
	}

	genes, err := assemble(records)
	if err != nil {
		return nil, err
	}

	imported := 0
	for _, g := range genes {
		coord, ok := coords[g.record.Seqid]
		if !ok {
			im.logger.Warn("skipping gene on sequence missing from FASTA",
				zap.String("gene", g.record.ID()),
				zap.String("seqid", g.record.Seqid))
			continue
		}
		if err := im.importGene(genome.ID, g, coord); err != nil {
			return nil, fmt.Errorf("import gene %s: %w", g.record.ID(), err)
		}
		imported++
	}
	if err := im.db.Commit(); err != nil {
		return nil, err
	}
	im.logger.Info("imported genome",
		zap.String("species", species),
		zap.Int("sequences", len(seqs)),
		zap.Int("genes", imported))
	return genome, nil
}

// assemble links child records to their parents by ID/Parent attributes.
func assemble(records []Record) ([]*gene, error) {
	var genes []*gene
	genesByID := make(map[string]*gene)
	transcriptsByID := make(map[string]*transcriptParts)

	for _, rec := range records {
		if rec.Type != "gene" {
			continue
		}
		id := rec.ID()
		if id == "" {
			return nil, fmt.Errorf("gene at %s:%d-%d has no ID", rec.Seqid, rec.Start, rec.End)
		}
		g := &gene{record: rec}
		genes = append(genes, g)
		genesByID[id] = g
	}
	for _, rec := range records {
		if !transcriptTypes[rec.Type] {
			continue
		}
		parent, ok := genesByID[rec.Parent()]
		if !ok {
			return nil, fmt.Errorf("transcript %s references unknown gene %q", rec.ID(), rec.Parent())
		}
		tp := &transcriptParts{record: rec}
		parent.transcripts = append(parent.transcripts, tp)
		if id := rec.ID(); id != "" {
			transcriptsByID[id] = tp
		}
	}
	for _, rec := range records {
		tp, ok := transcriptsByID[rec.Parent()]
		if !ok {
			continue
		}
		switch rec.Type {
		case "exon":
			tp.exons = append(tp.exons, rec)
		case "CDS":
			tp.cds = append(tp.cds, rec)
		}
	}
	return genes, nil
}

func (im *Importer) importGene(genomeID int64, g *gene, coord *annotation.Coordinate) error {
	sl := &annotation.SuperLocus{
		GivenName: g.record.ID(),
		Type:      "gene",
	}
	if err := im.db.CreateSuperLocus(genomeID, sl); err != nil {
		return err
	}

	for _, tp := range g.transcripts {
		tr := &annotation.Transcript{
			GivenName:    tp.record.ID(),
			Type:         tp.record.Type,
			SuperLocusID: sl.ID,
		}
		if err := im.db.CreateTranscript(tr); err != nil {
			return err
		}
		piece := &annotation.TranscribedPiece{
			GivenName:    tr.GivenName + ".piece0",
			Position:     0,
			TranscriptID: tr.ID,
		}
		if err := im.db.CreatePiece(piece); err != nil {
			return err
		}
		tr.Pieces = []*annotation.TranscribedPiece{piece}
		sl.Transcripts = append(sl.Transcripts, tr)

		if err := im.importTranscriptFeatures(tp, coord, piece); err != nil {
			return err
		}
	}
	return nil
}

func (im *Importer) importTranscriptFeatures(tp *transcriptParts, coord *annotation.Coordinate, piece *annotation.TranscribedPiece) error {
	isPlus := tp.record.IsPlusStrand()
	source := tp.record.Source

	txStart, txEnd := tp.record.PyRange()
	feats := []*annotation.Feature{
		rangedFeature(annotation.FeatureTranscript, txStart, txEnd, isPlus, source, coord),
	}

	if len(tp.cds) > 0 {
		cdsStart, cdsEnd := tp.cds[0].PyRange()
		for _, rec := range tp.cds[1:] {
			s, e := rec.PyRange()
			if s < cdsStart {
				cdsStart = s
			}
			if e > cdsEnd {
				cdsEnd = e
			}
		}
		feats = append(feats,
			rangedFeature(annotation.FeatureCDS, cdsStart, cdsEnd, isPlus, source, coord))
	}

	for _, gap := range exonGaps(tp.exons) {
		feats = append(feats,
			rangedFeature(annotation.FeatureIntron, gap[0], gap[1], isPlus, source, coord))
	}

	for _, f := range feats {
		f.AddPiece(piece)
		if err := im.db.CreateFeature(f); err != nil {
			return err
		}
	}
	return nil
}

// rangedFeature builds a feature for the 0-based half-open [pyStart, pyEnd),
// stored biologically: minus-strand features carry start > end raw.
func rangedFeature(t annotation.FeatureType, pyStart, pyEnd int64, isPlus bool, source string, coord *annotation.Coordinate) *annotation.Feature {
	f := &annotation.Feature{
		Type:                   t,
		IsPlusStrand:           isPlus,
		StartIsBiologicalStart: true,
		EndIsBiologicalEnd:     true,
		Source:                 source,
		Coordinate:             coord,
	}
	if isPlus {
		f.Start, f.End = pyStart, pyEnd
	} else {
		f.Start, f.End = pyEnd-1, pyStart-1
	}
	return f
}

// exonGaps returns the 0-based half-open gaps between consecutive exons,
// i.e. the introns.
func exonGaps(exons []Record) [][2]int64 {
	if len(exons) < 2 {
		return nil
	}
	sorted := make([]Record, len(exons))
	copy(sorted, exons)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var gaps [][2]int64
	for i := 1; i < len(sorted); i++ {
		_, prevEnd := sorted[i-1].PyRange()
		nextStart, _ := sorted[i].PyRange()
		if nextStart > prevEnd {
			gaps = append(gaps, [2]int64{prevEnd, nextStart})
		}
	}
	return gaps
}

// Describe summarizes a set of records by type, for logging.
func Describe(records []Record) string {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Type]++
	}
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = fmt.Sprintf("%s=%d", t, counts[t])
	}
	return strings.Join(parts, " ")
}
