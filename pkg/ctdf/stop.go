package ctdf

import (
	"fmt"
	"time"
)

const StopIDFormat = "BE:HALTE:%s"

type Stop struct {
	PrimaryIdentifier string   `groups:"basic" json:"primaryIdentifier"`
	OtherIdentifiers  []string `groups:"detailed" json:"otherIdentifiers"`

	// Haltenummer is the identifier the transit API knows the stop by
	Haltenummer string `groups:"basic" json:"haltenummer"`

	CreationDateTime     time.Time `groups:"detailed" json:"creationDateTime"`
	ModificationDateTime time.Time `groups:"detailed" json:"modificationDateTime"`

	DataSource *DataSource `groups:"internal" json:"-"`

	PrimaryName string `groups:"basic" json:"primaryName"`
	Description string `groups:"detailed" json:"description,omitempty"`

	Location *Location `groups:"basic" json:"location"`

	Active bool `groups:"basic" json:"active"`
}

func StopIdentifier(haltenummer string) string {
	return fmt.Sprintf(StopIDFormat, haltenummer)
}
