package model

// MetaInfo describes state of the database
type MetaInfo struct {
	// Version of the service which touched the database last time
	Version string

	// DatabaseVersion is a schema version
	DatabaseVersion uint
}
