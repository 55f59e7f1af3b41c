package persistence

// Default locations, relative to the working directory.
const (
	DefaultConfigPath   = "./config.yaml"
	DefaultSnapshotPath = "./snapshots.json"
	DefaultSQLitePath   = "./snapshots.db"
	DefaultOutputPath   = "./plaid_gen.beancount"
)
