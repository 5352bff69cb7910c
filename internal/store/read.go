package store

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/weberlab-hhu/helixer/internal/annotation"
)

// Genomes returns all genomes in the database.
func (d *DB) Genomes() ([]*annotation.Genome, error) {
	rows, err := d.query(`SELECT id, species, accession, version FROM genome ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query genomes: %w", err)
	}
	defer rows.Close()

	var genomes []*annotation.Genome
	for rows.Next() {
		g := &annotation.Genome{}
		if err := rows.Scan(&g.ID, &g.Species, &g.Accession, &g.Version); err != nil {
			return nil, fmt.Errorf("scan genome: %w", err)
		}
		genomes = append(genomes, g)
	}
	return genomes, rows.Err()
}

// GenomeBySpecies returns the genome with the given species name, or an error
// when it does not exist.
func (d *DB) GenomeBySpecies(species string) (*annotation.Genome, error) {
	g := &annotation.Genome{}
	err := d.queryRow(
		`SELECT id, species, accession, version FROM genome WHERE species = ?`,
		species).Scan(&g.ID, &g.Species, &g.Accession, &g.Version)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("genome %q not found", species)
	}
	if err != nil {
		return nil, fmt.Errorf("query genome %q: %w", species, err)
	}
	return g, nil
}

// coordinates loads coordinates matching the filter into a map keyed by ID.
func (d *DB) coordinates(where string, args ...any) (map[int64]*annotation.Coordinate, error) {
	rows, err := d.query(
		`SELECT id, genome_id, seqid, start, "end", sequence FROM coordinate `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query coordinates: %w", err)
	}
	defer rows.Close()

	coords := make(map[int64]*annotation.Coordinate)
	for rows.Next() {
		c := &annotation.Coordinate{}
		if err := rows.Scan(&c.ID, &c.GenomeID, &c.Seqid, &c.Start, &c.End, &c.Sequence); err != nil {
			return nil, fmt.Errorf("scan coordinate: %w", err)
		}
		coords[c.ID] = c
	}
	return coords, rows.Err()
}

// FullCoordinates returns the genome's full-sequence coordinates (the ones
// carrying sequence data), ordered by seqid.
func (d *DB) FullCoordinates(genomeID int64) ([]*annotation.Coordinate, error) {
	coords, err := d.coordinates(
		`WHERE genome_id = ? AND sequence != '' ORDER BY seqid`, genomeID)
	if err != nil {
		return nil, err
	}
	return sortedCoordinates(coords), nil
}

// SliceCoordinates returns the genome's slice coordinates (no sequence of
// their own) together with their processing-set assignments.
func (d *DB) SliceCoordinates(genomeID int64) ([]*annotation.Coordinate, map[int64]annotation.ProcessingSet, error) {
	coords, err := d.coordinates(
		`WHERE genome_id = ? AND sequence = '' ORDER BY seqid, start`, genomeID)
	if err != nil {
		return nil, nil, err
	}

	sets := make(map[int64]annotation.ProcessingSet)
	rows, err := d.query(
		`SELECT cs.coordinate_id, cs.processing_set
		 FROM coordinate_set cs
		 JOIN coordinate c ON c.id = cs.coordinate_id
		 WHERE c.genome_id = ?`, genomeID)
	if err != nil {
		return nil, nil, fmt.Errorf("query coordinate sets: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var set string
		if err := rows.Scan(&id, &set); err != nil {
			return nil, nil, fmt.Errorf("scan coordinate set: %w", err)
		}
		sets[id] = annotation.ProcessingSet(set)
	}
	return sortedCoordinates(coords), sets, rows.Err()
}

// ProcessingSetFor returns a coordinate's set assignment, if any.
func (d *DB) ProcessingSetFor(coordinateID int64) (annotation.ProcessingSet, bool, error) {
	var set string
	err := d.queryRow(
		`SELECT processing_set FROM coordinate_set WHERE coordinate_id = ?`,
		coordinateID).Scan(&set)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query processing set: %w", err)
	}
	return annotation.ProcessingSet(set), true, nil
}

// SequenceFor returns the full sequence for a seqid of a genome.
func (d *DB) SequenceFor(genomeID int64, seqid string) (string, error) {
	var seq string
	err := d.queryRow(
		`SELECT sequence FROM coordinate
		 WHERE genome_id = ? AND seqid = ? AND sequence != ''`,
		genomeID, seqid).Scan(&seq)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("no sequence stored for %q", seqid)
	}
	if err != nil {
		return "", fmt.Errorf("query sequence for %q: %w", seqid, err)
	}
	return seq, nil
}

// SuperLociBySeqid loads the full annotation graph of every super-locus with
// features on the given sequence. Coordinates are shared by pointer across
// the returned graph, so identity comparisons hold.
func (d *DB) SuperLociBySeqid(genomeID int64, seqid string) ([]*annotation.SuperLocus, error) {
	coords, err := d.coordinates(`WHERE genome_id = ?`, genomeID)
	if err != nil {
		return nil, err
	}

	rows, err := d.query(
		`SELECT sl.id, sl.given_name, sl.type,
			t.id, t.given_name, t.type,
			p.id, p.given_name, p.position,
			f.id, f.given_name, f.type, f.start, f."end", f.is_plus_strand,
			f.start_is_biological_start, f.end_is_biological_end,
			f.score, f.source, f.coordinate_id
		 FROM super_locus sl
		 JOIN transcript t ON t.super_locus_id = sl.id
		 JOIN transcript_piece p ON p.transcript_id = t.id
		 JOIN association_transcript_piece_to_feature a ON a.transcript_piece_id = p.id
		 JOIN feature f ON f.id = a.feature_id
		 JOIN coordinate c ON c.id = f.coordinate_id
		 WHERE sl.genome_id = ? AND c.seqid = ?
		 ORDER BY sl.id, t.id, p.position, f.id`,
		genomeID, seqid)
	if err != nil {
		return nil, fmt.Errorf("query super loci: %w", err)
	}
	defer rows.Close()

	var (
		loci        []*annotation.SuperLocus
		lociByID    = make(map[int64]*annotation.SuperLocus)
		transcripts = make(map[int64]*annotation.Transcript)
		pieces      = make(map[int64]*annotation.TranscribedPiece)
		features    = make(map[int64]*annotation.Feature)
	)
	for rows.Next() {
		var (
			slID, tID, pID, fID          int64
			slName, tName, pName, fName  sql.NullString
			slType, tType, fType, source sql.NullString
			position                     int
			fStart, fEnd, coordID        int64
			isPlus, bioStart, bioEnd     bool
			score                        sql.NullFloat64
		)
		if err := rows.Scan(
			&slID, &slName, &slType,
			&tID, &tName, &tType,
			&pID, &pName, &position,
			&fID, &fName, &fType, &fStart, &fEnd, &isPlus,
			&bioStart, &bioEnd, &score, &source, &coordID); err != nil {
			return nil, fmt.Errorf("scan super locus row: %w", err)
		}

		sl, ok := lociByID[slID]
		if !ok {
			sl = &annotation.SuperLocus{ID: slID, GivenName: slName.String, Type: slType.String}
			lociByID[slID] = sl
			loci = append(loci, sl)
		}
		tr, ok := transcripts[tID]
		if !ok {
			tr = &annotation.Transcript{
				ID: tID, GivenName: tName.String, Type: tType.String, SuperLocusID: slID,
			}
			transcripts[tID] = tr
			sl.Transcripts = append(sl.Transcripts, tr)
		}
		piece, ok := pieces[pID]
		if !ok {
			piece = &annotation.TranscribedPiece{
				ID: pID, GivenName: pName.String, Position: position, TranscriptID: tID,
			}
			pieces[pID] = piece
			tr.Pieces = append(tr.Pieces, piece)
		}
		f, ok := features[fID]
		if !ok {
			coord, ok := coords[coordID]
			if !ok {
				return nil, fmt.Errorf("feature %d references unknown coordinate %d", fID, coordID)
			}
			f = &annotation.Feature{
				ID:                     fID,
				GivenName:              fName.String,
				Type:                   annotation.FeatureType(fType.String),
				Start:                  fStart,
				End:                    fEnd,
				IsPlusStrand:           isPlus,
				StartIsBiologicalStart: bioStart,
				EndIsBiologicalEnd:     bioEnd,
				Score:                  score.Float64,
				Source:                 source.String,
				Coordinate:             coord,
			}
			features[fID] = f
		}
		f.Pieces = append(f.Pieces, piece)
		piece.Features = append(piece.Features, f)
	}
	return loci, rows.Err()
}

func sortedCoordinates(coords map[int64]*annotation.Coordinate) []*annotation.Coordinate {
	out := make([]*annotation.Coordinate, 0, len(coords))
	for _, c := range coords {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Seqid != out[j].Seqid {
			return out[i].Seqid < out[j].Seqid
		}
		return out[i].Start < out[j].Start
	})
	return out
}
