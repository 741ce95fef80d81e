package model

// VersionInfo contains version information for the application.
type VersionInfo struct {
	AppVersion string `json:"app_version"`
	DbVersion  string `json:"db_version"`
}

// MaintenanceReport summarises one run of the maintenance job.
type MaintenanceReport struct {
	ZeroHoldings      int64 `json:"zeroHoldings"`
	InstrumentsCached int   `json:"instrumentsCached"`
}
