package gtfs

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/bussin/bussin/pkg/ctdf"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

const stopsFileName = "stops.txt"

var ErrNoStopsFile = errors.New("gtfs archive has no stops.txt")

type Stop struct {
	ID           string  `csv:"stop_id"`
	Code         string  `csv:"stop_code"`
	Name         string  `csv:"stop_name"`
	Description  string  `csv:"stop_desc"`
	Latitude     float64 `csv:"stop_lat"`
	Longitude    float64 `csv:"stop_lon"`
	ZoneID       string  `csv:"zone_id"`
	URL          string  `csv:"stop_url"`
	Type         string  `csv:"location_type"`
	Parent       string  `csv:"parent_station"`
	Timezone     string  `csv:"stop_timezone"`
	Wheelchair   string  `csv:"wheelchair_boarding"`
	PlatformCode string  `csv:"platform_code"`
}

// Haltenummer is the number the transit API knows the stop by, the stop code
// when the feed has one.
func (s *Stop) Haltenummer() string {
	if s.Code != "" {
		return s.Code
	}

	return s.ID
}

// IsBoardable reports whether vehicles stop here, as opposed to stations,
// entrances and other location types.
func (s *Stop) IsBoardable() bool {
	return s.Type == "" || s.Type == "0"
}

// Schedule holds the stops.txt of a GTFS schedule, read either from the whole
// zip archive or from the bare file.
type Schedule struct {
	Stops []Stop
}

func (g *Schedule) ParseFile(reader io.Reader) error {
	body, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	if !bytes.HasPrefix(body, []byte("PK\x03\x04")) {
		return g.unmarshalStops(body)
	}

	archive, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return err
	}

	for _, zipFile := range archive.File {
		if zipFile.Name != stopsFileName {
			continue
		}

		log.Info().Str("file", zipFile.Name).Msg("Loading file")

		file, err := zipFile.Open()
		if err != nil {
			return err
		}
		defer file.Close()

		contents, err := io.ReadAll(file)
		if err != nil {
			return err
		}

		return g.unmarshalStops(contents)
	}

	return ErrNoStopsFile
}

// ToCTDF converts the boardable stops into CTDF. Stops sharing a haltenummer
// are merged into the first.
func (g *Schedule) ToCTDF(datasource *ctdf.DataSource) []*ctdf.Stop {
	now := time.Now()
	seen := map[string]*ctdf.Stop{}
	var stops []*ctdf.Stop

	for _, gtfsStop := range g.Stops {
		if !gtfsStop.IsBoardable() {
			continue
		}

		haltenummer := strings.TrimSpace(gtfsStop.Haltenummer())
		if haltenummer == "" {
			log.Debug().Str("stop", gtfsStop.Name).Msg("Stop has no identifier")
			continue
		}

		if existing, exists := seen[haltenummer]; exists {
			existing.OtherIdentifiers = appendUnique(existing.OtherIdentifiers, gtfsStop.ID)
			continue
		}

		ctdfStop := &ctdf.Stop{
			PrimaryIdentifier:    ctdf.StopIdentifier(haltenummer),
			OtherIdentifiers:     appendUnique([]string{haltenummer}, gtfsStop.ID),
			Haltenummer:          haltenummer,
			CreationDateTime:     now,
			ModificationDateTime: now,
			DataSource:           datasource,
			PrimaryName:          strings.TrimSpace(gtfsStop.Name),
			Description:          strings.TrimSpace(gtfsStop.Description),
			Location:             ctdf.NewPointLocation(gtfsStop.Longitude, gtfsStop.Latitude),
			Active:               true,
		}

		seen[haltenummer] = ctdfStop
		stops = append(stops, ctdfStop)
	}

	return stops
}

func (g *Schedule) unmarshalStops(contents []byte) error {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(contents, []byte("\xef\xbb\xbf"))))

	// Allow us to ignore those naughty records that have missing columns
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return gocsv.UnmarshalCSV(reader, &g.Stops)
}

func appendUnique(values []string, value string) []string {
	for _, existing := range values {
		if existing == value {
			return values
		}
	}

	return append(values, value)
}
