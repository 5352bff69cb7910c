package gff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGFF = `##gff-version 3
# a comment line
chr1	araport	gene	3631	5899	.	+	.	ID=AT1G01010;Name=NAC001
chr1	araport	mRNA	3631	5899	.	+	.	ID=AT1G01010.1;Parent=AT1G01010
chr1	araport	exon	3631	3913	.	+	.	Parent=AT1G01010.1
chr1	araport	CDS	3760	3913	44.5	+	0	Parent=AT1G01010.1,AT1G01010.2
chr1	araport	gene	6788	9130	.	-	.	ID=AT1G01020
`

func TestParse(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleGFF))
	require.NoError(t, err)
	require.Len(t, records, 5, "comments and pragmas skipped")

	gene := records[0]
	assert.Equal(t, "chr1", gene.Seqid)
	assert.Equal(t, "araport", gene.Source)
	assert.Equal(t, "gene", gene.Type)
	assert.Equal(t, int64(3631), gene.Start)
	assert.Equal(t, int64(5899), gene.End)
	assert.Equal(t, "AT1G01010", gene.ID())
	assert.False(t, gene.HasScore)
	assert.True(t, gene.IsPlusStrand())

	mrna := records[1]
	assert.Equal(t, "AT1G01010", mrna.Parent())

	cds := records[3]
	assert.True(t, cds.HasScore)
	assert.Equal(t, 44.5, cds.Score)
	assert.Equal(t, "0", cds.Phase)
	assert.Equal(t, "AT1G01010.1", cds.Parent(), "first of multiple parents")

	minus := records[4]
	assert.False(t, minus.IsPlusStrand())
}

func TestRecord_PyRange(t *testing.T) {
	r := Record{Start: 3631, End: 5899}
	start, end := r.PyRange()
	assert.Equal(t, int64(3630), start)
	assert.Equal(t, int64(5899), end)
}

func TestRecord_IsPlusStrand_Unstranded(t *testing.T) {
	r := Record{Strand: "."}
	assert.True(t, r.IsPlusStrand())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"too few columns", "chr1\tsrc\tgene\t1\t10"},
		{"bad start", "chr1\tsrc\tgene\tx\t10\t.\t+\t.\tID=a"},
		{"bad end", "chr1\tsrc\tgene\t1\ty\t.\t+\t.\tID=a"},
		{"zero start", "chr1\tsrc\tgene\t0\t10\t.\t+\t.\tID=a"},
		{"inverted interval", "chr1\tsrc\tgene\t10\t5\t.\t+\t.\tID=a"},
		{"bad score", "chr1\tsrc\tgene\t1\t10\tabc\t+\t.\tID=a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.line + "\n"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 1")
		})
	}
}

func TestParseAttributes(t *testing.T) {
	attrs := parseAttributes("ID=gene1;Name=NAC001; Note=has spaces ;flagonly")
	assert.Equal(t, "gene1", attrs["ID"])
	assert.Equal(t, "NAC001", attrs["Name"])
	assert.Equal(t, "has spaces", attrs["Note"])
	assert.NotContains(t, attrs, "flagonly", "bare tokens without = are dropped")
}

func TestParse_SinglePointFeature(t *testing.T) {
	records, err := Parse(strings.NewReader("chr1\tsrc\tTSS\t100\t100\t.\t+\t.\tID=tss1\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	start, end := records[0].PyRange()
	assert.Equal(t, int64(1), end-start)
}
