package store

import (
	"fmt"

	"github.com/weberlab-hhu/helixer/internal/annotation"
)

// CreateGenome persists a genome and assigns its ID.
func (d *DB) CreateGenome(g *annotation.Genome) error {
	res, err := d.exec(
		`INSERT INTO genome (species, accession, version) VALUES (?, ?, ?)`,
		g.Species, g.Accession, g.Version)
	if err != nil {
		return fmt.Errorf("insert genome: %w", err)
	}
	g.ID, err = res.LastInsertId()
	return err
}

// CreateCoordinate persists a coordinate and assigns its ID.
func (d *DB) CreateCoordinate(c *annotation.Coordinate) error {
	res, err := d.exec(
		`INSERT INTO coordinate (genome_id, seqid, start, "end", sequence)
		 VALUES (?, ?, ?, ?, ?)`,
		c.GenomeID, c.Seqid, c.Start, c.End, c.Sequence)
	if err != nil {
		return fmt.Errorf("insert coordinate %s:[%d, %d): %w", c.Seqid, c.Start, c.End, err)
	}
	c.ID, err = res.LastInsertId()
	return err
}

// CreateSuperLocus persists a super-locus and assigns its ID.
func (d *DB) CreateSuperLocus(genomeID int64, sl *annotation.SuperLocus) error {
	res, err := d.exec(
		`INSERT INTO super_locus (genome_id, given_name, type) VALUES (?, ?, ?)`,
		genomeID, sl.GivenName, sl.Type)
	if err != nil {
		return fmt.Errorf("insert super locus %s: %w", sl.GivenName, err)
	}
	sl.ID, err = res.LastInsertId()
	return err
}

// CreateTranscript persists a transcript and assigns its ID.
func (d *DB) CreateTranscript(t *annotation.Transcript) error {
	res, err := d.exec(
		`INSERT INTO transcript (given_name, type, super_locus_id) VALUES (?, ?, ?)`,
		t.GivenName, t.Type, t.SuperLocusID)
	if err != nil {
		return fmt.Errorf("insert transcript %s: %w", t.GivenName, err)
	}
	t.ID, err = res.LastInsertId()
	return err
}

// CreatePiece persists a piece and assigns its ID.
func (d *DB) CreatePiece(p *annotation.TranscribedPiece) error {
	res, err := d.exec(
		`INSERT INTO transcript_piece (given_name, position, transcript_id)
		 VALUES (?, ?, ?)`,
		p.GivenName, p.Position, p.TranscriptID)
	if err != nil {
		return fmt.Errorf("insert piece: %w", err)
	}
	p.ID, err = res.LastInsertId()
	return err
}

// UpdatePiecePositions writes the order keys of the given pieces.
func (d *DB) UpdatePiecePositions(pieces []*annotation.TranscribedPiece) error {
	for _, p := range pieces {
		if _, err := d.exec(
			`UPDATE transcript_piece SET position = ? WHERE id = ?`,
			p.Position, p.ID); err != nil {
			return fmt.Errorf("update piece %d position: %w", p.ID, err)
		}
	}
	return nil
}

// DeletePiece removes a piece and its feature associations.
func (d *DB) DeletePiece(pieceID int64) error {
	if _, err := d.exec(
		`DELETE FROM association_transcript_piece_to_feature
		 WHERE transcript_piece_id = ?`, pieceID); err != nil {
		return fmt.Errorf("delete piece %d associations: %w", pieceID, err)
	}
	if _, err := d.exec(
		`DELETE FROM transcript_piece WHERE id = ?`, pieceID); err != nil {
		return fmt.Errorf("delete piece %d: %w", pieceID, err)
	}
	return nil
}

// CreateFeature persists a feature, piece associations included, and assigns
// its ID.
func (d *DB) CreateFeature(f *annotation.Feature) error {
	if f.Coordinate == nil {
		return fmt.Errorf("feature %q has no coordinate", f.GivenName)
	}
	res, err := d.exec(
		`INSERT INTO feature (given_name, type, start, "end", is_plus_strand,
			start_is_biological_start, end_is_biological_end, score, source,
			coordinate_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.GivenName, string(f.Type), f.Start, f.End, f.IsPlusStrand,
		f.StartIsBiologicalStart, f.EndIsBiologicalEnd, f.Score, f.Source,
		f.Coordinate.ID)
	if err != nil {
		return fmt.Errorf("insert feature %q: %w", f.GivenName, err)
	}
	if f.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	for _, p := range f.Pieces {
		if _, err := d.exec(
			`INSERT INTO association_transcript_piece_to_feature
				(transcript_piece_id, feature_id) VALUES (?, ?)`,
			p.ID, f.ID); err != nil {
			return fmt.Errorf("associate feature %d with piece %d: %w", f.ID, p.ID, err)
		}
	}
	return nil
}

// UpdateFeature writes a feature's interval, flags and coordinate.
func (d *DB) UpdateFeature(f *annotation.Feature) error {
	if f.Coordinate == nil {
		return fmt.Errorf("feature %d has no coordinate", f.ID)
	}
	_, err := d.exec(
		`UPDATE feature SET start = ?, "end" = ?,
			start_is_biological_start = ?, end_is_biological_end = ?,
			coordinate_id = ?
		 WHERE id = ?`,
		f.Start, f.End, f.StartIsBiologicalStart, f.EndIsBiologicalEnd,
		f.Coordinate.ID, f.ID)
	if err != nil {
		return fmt.Errorf("update feature %d: %w", f.ID, err)
	}
	return nil
}

// SwapFeatureCoordinate re-points a feature at a new coordinate.
func (d *DB) SwapFeatureCoordinate(featureID, newCoordinateID int64) error {
	_, err := d.exec(
		`UPDATE feature SET coordinate_id = ? WHERE id = ?`,
		newCoordinateID, featureID)
	if err != nil {
		return fmt.Errorf("swap feature %d coordinate: %w", featureID, err)
	}
	return nil
}

// SwapFeaturePiece moves a feature's association from one piece to another.
func (d *DB) SwapFeaturePiece(featureID, oldPieceID, newPieceID int64) error {
	res, err := d.exec(
		`UPDATE association_transcript_piece_to_feature
		 SET transcript_piece_id = ?
		 WHERE transcript_piece_id = ? AND feature_id = ?`,
		newPieceID, oldPieceID, featureID)
	if err != nil {
		return fmt.Errorf("swap feature %d piece: %w", featureID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("feature %d is not associated with piece %d", featureID, oldPieceID)
	}
	return nil
}

// SetProcessingSet assigns a coordinate to train, dev or test.
func (d *DB) SetProcessingSet(coordinateID int64, set annotation.ProcessingSet) error {
	if !annotation.ValidProcessingSet(set) {
		return fmt.Errorf("invalid processing set %q", set)
	}
	_, err := d.exec(
		`INSERT INTO coordinate_set (coordinate_id, processing_set) VALUES (?, ?)
		 ON CONFLICT (coordinate_id) DO UPDATE SET processing_set = excluded.processing_set`,
		coordinateID, string(set))
	if err != nil {
		return fmt.Errorf("set processing set for coordinate %d: %w", coordinateID, err)
	}
	return nil
}

// AddMerCount records one canonical k-mer count for a coordinate.
func (d *DB) AddMerCount(coordinateID int64, mer string, count int64, k int) error {
	_, err := d.exec(
		`INSERT INTO mer (coordinate_id, mer_sequence, count, length)
		 VALUES (?, ?, ?, ?)`,
		coordinateID, mer, count, k)
	if err != nil {
		return fmt.Errorf("insert mer count: %w", err)
	}
	return nil
}
