package ctdf

type DataSource struct {
	OriginalFormat string `groups:"internal"` // eg. GTFS, final-schedule-json
	Provider       string `groups:"internal"`
	DatasetID      string `groups:"internal"`
	Timestamp      string `groups:"internal"`
}
