package annotation

// FeatureType is the closed set of feature kinds the annotation graph stores.
// The three span types mirror the ranged representation used throughout: one
// transcript span, one coding span, one span per intron.
type FeatureType string

const (
	FeatureTranscript FeatureType = "geenuff_transcript"
	FeatureCDS        FeatureType = "geenuff_cds"
	FeatureIntron     FeatureType = "geenuff_intron"
	// FeatureError masks a region whose annotation is known to be wrong or
	// incomplete; exported sample weights zero these spans.
	FeatureError FeatureType = "error"
)

// ValidFeatureType reports whether t is a member of the closed set.
func ValidFeatureType(t FeatureType) bool {
	switch t {
	case FeatureTranscript, FeatureCDS, FeatureIntron, FeatureError:
		return true
	}
	return false
}

// ProcessingSet assigns a coordinate to one of the model data splits.
type ProcessingSet string

const (
	SetTrain ProcessingSet = "train"
	SetDev   ProcessingSet = "dev"
	SetTest  ProcessingSet = "test"
)

// ValidProcessingSet reports whether s is train, dev or test.
func ValidProcessingSet(s ProcessingSet) bool {
	return s == SetTrain || s == SetDev || s == SetTest
}
