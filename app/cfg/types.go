package cfg

import "time"

type Cfg struct {
	// Input
	SourcesFile string

	// Persistent state
	DataDir     string
	LedgerFile  string
	DatasetDir  string
	ReportFile  string
	JournalFile string
	LockFile    string

	// Ingestion
	LedgerLimit  int
	MaxRows      int
	FetchTimeout time.Duration
	UserAgent    string

	// Publishing
	PublishDay     string
	DeployURL      string
	SiteID         string
	Token          string
	PublishTimeout time.Duration

	// Application metadata
	Timezone  string
	LogFormat string
	Debug     bool
	Version   string
}
