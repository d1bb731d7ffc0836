package ladder

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/snowflake-ladder/snowflake/internal/tracks"
)

// Record is the persisted form of a profile.
type Record struct {
	Username     string `json:"username"`
	Name         string `json:"name"`
	Team         string `json:"team"`
	TracksByTeam string `json:"tracksByTeam"`
}

// EncodeRecord converts p to its persisted form. Milestones are stored as a
// comma-separated list in catalog order.
func EncodeRecord(p Profile) Record {
	ordered := p.Ordered()
	values := make([]string, 0, len(ordered))
	for _, m := range ordered {
		values = append(values, strconv.Itoa(int(m)))
	}
	return Record{
		Username:     p.identity.Username,
		Name:         p.identity.DisplayName,
		Team:         p.Team(),
		TracksByTeam: strings.Join(values, ","),
	}
}

// DecodeRecord rebuilds a profile from rec. Unknown teams use the fallback
// catalog. Stored values are matched to tracks by position: missing values
// are zero and extra values are ignored, so a record written before its
// catalog gained or lost a track still loads. An empty name falls back to
// the username.
func DecodeRecord(reg *tracks.Registry, rec Record) (Profile, error) {
	cat := reg.ForTeam(rec.Team)
	var values []string
	if rec.TracksByTeam != "" {
		values = strings.Split(rec.TracksByTeam, ",")
	}

	name := rec.Name
	if name == "" {
		name = rec.Username
	}
	p := blankProfile(cat, Identity{Username: rec.Username, DisplayName: name})
	for i, id := range cat.IDs() {
		if i < len(values) {
			p.milestones[id] = ParseMilestone(values[i])
		}
	}
	return p, nil
}

// CheckRecord reports a MalformedEncodingError unless rec stores exactly one
// value per track of its team's catalog. Writers use it to keep new records
// exact while DecodeRecord stays lenient for stored ones.
func CheckRecord(reg *tracks.Registry, rec Record) error {
	cat := reg.ForTeam(rec.Team)
	n := 0
	if rec.TracksByTeam != "" {
		n = strings.Count(rec.TracksByTeam, ",") + 1
	}
	if n != cat.Len() {
		return &MalformedEncodingError{
			Reason: fmt.Sprintf("record has %d values for the %d-track %s catalog", n, cat.Len(), cat.Team()),
		}
	}
	return nil
}

//go:embed record.schema.json
var recordSchemaJSON []byte

var compiledRecordSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(recordSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse record schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema://record.json", doc); err != nil {
		return nil, fmt.Errorf("add record schema: %w", err)
	}
	return c.Compile("schema://record.json")
})

// ParseRecord is the only way a record enters the program from outside. It
// validates raw against the record schema before decoding, so legacy shapes
// and partial documents are rejected with ErrInvalidRecord.
func ParseRecord(raw []byte) (Record, error) {
	schema, err := compiledRecordSchema()
	if err != nil {
		return Record{}, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return Record{}, &InvalidRecordError{Err: err}
	}
	if err := schema.Validate(doc); err != nil {
		return Record{}, &InvalidRecordError{Err: err}
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, &InvalidRecordError{Err: err}
	}
	return rec, nil
}
