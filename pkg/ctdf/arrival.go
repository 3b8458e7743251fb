package ctdf

import (
	"time"
)

// Arrival is a doorkomst enriched with the display metadata of the line it
// was matched to and the timing fields derived from its timestamps.
type Arrival struct {
	DoorkomstID      string   `json:"doorkomstId,omitempty" groups:"basic"`
	Entiteitnummer   string   `json:"entiteitnummer,omitempty" groups:"basic"`
	Lijnnummer       string   `json:"lijnnummer,omitempty" groups:"basic" copier:"-"`
	Richting         string   `json:"richting,omitempty" groups:"basic"`
	Ritnummer        string   `json:"ritnummer,omitempty" groups:"detailed"`
	Bestemming       string   `json:"bestemming,omitempty" groups:"basic"`
	PlaatsBestemming string   `json:"plaatsBestemming,omitempty" groups:"basic"`
	Vias             []string `json:"vias" groups:"detailed"`

	DienstregelingTijdstip string   `json:"dienstregelingTijdstip,omitempty" groups:"detailed"`
	RealTimeTijdstip       string   `json:"realTimeTijdstip,omitempty" groups:"detailed" copier:"-"`
	Vrtnum                 string   `json:"vrtnum,omitempty" groups:"basic" copier:"-"`
	PredictionStatussen    []string `json:"predictionStatussen" groups:"detailed" copier:"-"`

	LijnNummerPubliek        string `json:"lijnNummerPubliek,omitempty" groups:"basic"`
	LijnOmschrijving         string `json:"lijnOmschrijving,omitempty" groups:"basic"`
	LijnKleurVoorGrond       string `json:"lijnKleurVoorGrond,omitempty" groups:"basic"`
	LijnKleurAchterGrond     string `json:"lijnKleurAchterGrond,omitempty" groups:"basic"`
	LijnKleurAchterGrondRand string `json:"lijnKleurAchterGrondRand,omitempty" groups:"basic"`
	LijnKleurVoorGrondRand   string `json:"lijnKleurVoorGrondRand,omitempty" groups:"basic"`

	ScheduledTimeFormatted string    `json:"scheduledTimeFormatted,omitempty" groups:"basic"`
	ExpectedArrivalTime    time.Time `json:"expectedArrivalTime" groups:"basic"`
	RealArrivalTime        time.Time `json:"realArrivalTime" groups:"basic"`

	RealtimeAvailable bool        `json:"realtimeAvailable" groups:"basic"`
	DelayMinutes      *int        `json:"delayMinutes,omitempty" groups:"basic"`
	DelayText         string      `json:"delayText,omitempty" groups:"basic"`
	DelayStatus       DelayStatus `json:"delayStatus,omitempty" groups:"basic"`
	Countdown         string      `json:"countdown,omitempty" groups:"basic"`

	Badge *LineBadge `json:"badge,omitempty" groups:"basic"`

	MatchRule string `json:"matchRule,omitempty" groups:"detailed"`
}

type DelayStatus string

const (
	DelayStatusOnTime DelayStatus = "onTime"
	DelayStatusLate   DelayStatus = "late"
	DelayStatusEarly  DelayStatus = "early"
)

// HasLineMetadata reports whether a line metadata record was matched.
func (a *Arrival) HasLineMetadata() bool {
	return a.MatchRule != ""
}

// EffectiveTime is the instant the vehicle is expected at the stop, the
// real-time instant when known and the scheduled one otherwise. The second
// return is false when neither is known.
func (a *Arrival) EffectiveTime() (time.Time, bool) {
	switch {
	case IsKnownInstant(a.RealArrivalTime):
		return a.RealArrivalTime, true
	case IsKnownInstant(a.ExpectedArrivalTime):
		return a.ExpectedArrivalTime, true
	default:
		return time.Time{}, false
	}
}

// IsKnownInstant reports whether t is a resolved timestamp rather than the
// "unavailable" sentinel, which is anything at or before the Unix epoch.
func IsKnownInstant(t time.Time) bool {
	return !t.IsZero() && t.UnixMilli() > 0
}
