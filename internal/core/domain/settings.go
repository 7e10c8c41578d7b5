package domain

import "strconv"

const unknownDescription = "Unknown"

// RecorderBackend selects where session records are appended.
type RecorderBackend string

// Available recorder backends.
const (
	// RecorderCSV appends to a CSV file.
	RecorderCSV RecorderBackend = "csv"

	// RecorderSQLite appends to the local SQLite database.
	RecorderSQLite RecorderBackend = "sqlite"

	// RecorderBoth appends to CSV and SQLite.
	RecorderBoth RecorderBackend = "both"

	// RecorderNone disables session recording.
	RecorderNone RecorderBackend = "none"
)

// IsValid returns true if the backend is recognised.
func (b RecorderBackend) IsValid() bool {
	switch b {
	case RecorderCSV, RecorderSQLite, RecorderBoth, RecorderNone:
		return true
	default:
		return false
	}
}

// UsesCSV returns true if records go to the CSV file.
func (b RecorderBackend) UsesCSV() bool {
	return b == RecorderCSV || b == RecorderBoth
}

// UsesSQLite returns true if records go to the SQLite database.
func (b RecorderBackend) UsesSQLite() bool {
	return b == RecorderSQLite || b == RecorderBoth
}

// String returns the string representation.
func (b RecorderBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b RecorderBackend) Description() string {
	switch b {
	case RecorderCSV:
		return "CSV file (append-only)"
	case RecorderSQLite:
		return "SQLite database"
	case RecorderBoth:
		return "CSV file and SQLite database"
	case RecorderNone:
		return "Disabled"
	default:
		return unknownDescription
	}
}

// AllRecorderBackends returns all available recorder backends.
func AllRecorderBackends() []RecorderBackend {
	return []RecorderBackend{
		RecorderCSV,
		RecorderSQLite,
		RecorderBoth,
		RecorderNone,
	}
}

// SessionSettings holds session recording configuration.
type SessionSettings struct {
	// Backend selects the recorder sink.
	Backend RecorderBackend

	// CSVPath is the CSV log location.
	CSVPath string

	// DataDir holds the SQLite database. Empty means the default
	// directory under the config dir.
	DataDir string
}

// TreatmentSettings holds treatment lookup configuration.
type TreatmentSettings struct {
	// Dir holds local "<disease>.html" documents.
	Dir string
}

// RankingSettings holds fallback ranker configuration.
type RankingSettings struct {
	// TopK is the number of suggestions returned.
	TopK int
}

// CatalogSettings holds rule catalog configuration.
type CatalogSettings struct {
	// Path overrides the embedded catalog. Empty uses the built-in one.
	Path string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Sessions  SessionSettings
	Treatment TreatmentSettings
	Ranking   RankingSettings
	Catalog   CatalogSettings
}

// Setting defaults.
const (
	DefaultCSVPath      = "sessions.csv"
	DefaultTreatmentDir = "Treatment/html"
	DefaultTopK         = 3
)

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Sessions: SessionSettings{
			Backend: RecorderCSV,
			CSVPath: DefaultCSVPath,
		},
		Treatment: TreatmentSettings{
			Dir: DefaultTreatmentDir,
		},
		Ranking: RankingSettings{
			TopK: DefaultTopK,
		},
	}
}

// Dotted setting keys, as stored in the config file.
const (
	SettingSessionsBackend = "sessions.backend"
	SettingSessionsCSVPath = "sessions.csv_path"
	SettingSessionsDataDir = "sessions.data_dir"
	SettingTreatmentDir    = "treatment.dir"
	SettingRankingTopK     = "ranking.top_k"
	SettingCatalogPath     = "catalog.path"
)

// SettingEntry is one key and its current value rendered as text.
type SettingEntry struct {
	Key   string
	Value string
}

// Entries lists every setting in display order.
func (s *AppSettings) Entries() []SettingEntry {
	return []SettingEntry{
		{Key: SettingSessionsBackend, Value: s.Sessions.Backend.String()},
		{Key: SettingSessionsCSVPath, Value: s.Sessions.CSVPath},
		{Key: SettingSessionsDataDir, Value: s.Sessions.DataDir},
		{Key: SettingTreatmentDir, Value: s.Treatment.Dir},
		{Key: SettingRankingTopK, Value: strconv.Itoa(s.Ranking.TopK)},
		{Key: SettingCatalogPath, Value: s.Catalog.Path},
	}
}
