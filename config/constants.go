package config

// Document analysis constants.
const (
	MinimumDocumentLength = 100
	MinimumChunkSize      = 50
	MaximumChunkSize      = 2000
	DefaultChunkOverlap   = 200
)

// Pattern detection thresholds.
const (
	HighConfidenceThreshold    = 0.7
	MediumConfidenceThreshold  = 0.4
	PatternFrequencyMultiplier = 1.5
	FrequencyBoostCap          = 5.0
)

// Per-strategy chunk overlap, in characters. Products and FAQ use zero
// overlap so semantic units never bleed into each other.
const (
	ProductsChunkOverlap = 0
	ManualChunkOverlap   = 150
	FAQChunkOverlap      = 0
	ArticleChunkOverlap  = 100
	LegalChunkOverlap    = 250
	CodeChunkOverlap     = 100
)

// File handling constants.
const (
	RAGFileExtension = ".rag"
	BackupExtension  = ".bak"
)

// Error messages shared across packages.
const (
	ErrInvalidEncodingMsg  = "document must be valid UTF-8 encoded text"
	ErrDocumentTooShortMsg = "document must be at least 100 characters"
	ErrNoStrategyMsg       = "no suitable processing strategy could be determined"
	ErrInvalidDirectiveMsg = "invalid processing directive format"
)
