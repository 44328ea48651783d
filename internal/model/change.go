package model

import (
	"encoding/json"
	"time"
)

const (
	TableThoughts = "thoughts"
	TableMissions = "missions"
	TableGoals    = "goals"
	TableVisions  = "visions"
	TableProfiles = "profiles"
)

// EventType mirrors the change kinds a realtime subscription can filter on.
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
	EventAll    EventType = "*"
)

// ChangeEvent is one row-level change pushed over the realtime stream.
// New is empty for deletes and Old is empty for inserts.
type ChangeEvent struct {
	Table           string          `json:"table"`
	Type            EventType       `json:"type"`
	New             json.RawMessage `json:"new,omitempty"`
	Old             json.RawMessage `json:"old,omitempty"`
	CommitTimestamp time.Time       `json:"commit_timestamp"`
}

// NewChangeEvent encodes the given rows. Either row may be nil.
func NewChangeEvent(table string, typ EventType, newRow, oldRow any) (ChangeEvent, error) {
	ev := ChangeEvent{
		Table:           table,
		Type:            typ,
		CommitTimestamp: time.Now().UTC(),
	}
	if newRow != nil {
		b, err := json.Marshal(newRow)
		if err != nil {
			return ev, err
		}
		ev.New = b
	}
	if oldRow != nil {
		b, err := json.Marshal(oldRow)
		if err != nil {
			return ev, err
		}
		ev.Old = b
	}
	return ev, nil
}

// Matches reports whether the event passes a table/type subscription filter.
// Empty values match everything.
func (e ChangeEvent) Matches(table string, typ EventType) bool {
	if table != "" && table != "*" && table != e.Table {
		return false
	}
	if typ != "" && typ != EventAll && typ != e.Type {
		return false
	}
	return true
}

// Snapshot is the full data set a client refetches after any change.
type Snapshot struct {
	Profile         Profile   `json:"profile"`
	Partner         *Profile  `json:"partner,omitempty"`
	Thoughts        []Thought `json:"thoughts"`
	Missions        []Mission `json:"missions"`
	Goals           []Goal    `json:"goals"`
	Visions         []Vision  `json:"visions"`
	PartnerThoughts []Thought `json:"partner_thoughts"`
	PartnerMissions []Mission `json:"partner_missions"`
	PartnerGoals    []Goal    `json:"partner_goals"`
}
