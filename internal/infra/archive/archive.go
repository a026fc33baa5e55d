// Package archive converts whole vaults to and from YAML for export and import.
package archive

import (
	"bytes"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/toru/internal/domain"
)

// Ensure YAMLCodec implements domain.ArchiveCodec.
var _ domain.ArchiveCodec = YAMLCodec{}

type document struct {
	Tasks  []taskData `yaml:"tasks"`
	NextID int        `yaml:"next_id"`
}

// taskData is the exported form of a task. Field order is the order keys
// appear in the document.
type taskData struct {
	ID           int             `yaml:"id"`
	Name         string          `yaml:"name"`
	Info         string          `yaml:"info,omitempty"`
	Priority     string          `yaml:"priority"`
	Tags         []string        `yaml:"tags,omitempty"`
	Dependencies []int           `yaml:"dependencies,omitempty"`
	Created      time.Time       `yaml:"created"`
	Due          *time.Time      `yaml:"due,omitempty"`
	Completed    *time.Time      `yaml:"completed,omitempty"`
	Discarded    bool            `yaml:"discarded,omitempty"`
	TimeEntries  []timeEntryData `yaml:"time_entries,omitempty"`
}

type timeEntryData struct {
	LoggedDate string          `yaml:"logged_date"`
	Message    string          `yaml:"message,omitempty"`
	Duration   domain.Duration `yaml:"duration,flow"`
}

// YAMLCodec reads and writes archives as YAML documents.
type YAMLCodec struct{}

// Encode renders an archive.
func (YAMLCodec) Encode(a *domain.Archive) ([]byte, error) {
	doc := document{NextID: a.NextID, Tasks: make([]taskData, 0, len(a.Tasks))}
	for _, t := range a.Tasks {
		td := taskData{
			ID:           t.ID,
			Name:         t.Name,
			Info:         t.Info,
			Priority:     string(t.Priority),
			Tags:         t.Tags,
			Dependencies: t.Deps,
			Created:      t.Created,
			Due:          t.Due,
			Completed:    t.Completed,
			Discarded:    t.Discarded,
		}
		for _, e := range t.TimeEntries {
			td.TimeEntries = append(td.TimeEntries, timeEntryData{
				LoggedDate: e.LoggedDate.Format(domain.DateLayout),
				Message:    e.Message,
				Duration:   e.Duration,
			})
		}
		doc.Tasks = append(doc.Tasks, td)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode archive: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode archive: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses an archive. Field rules beyond the format itself are
// checked when the archive is imported.
func (YAMLCodec) Decode(data []byte) (*domain.Archive, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse archive: %w", err)
	}

	a := &domain.Archive{NextID: doc.NextID, Tasks: make([]*domain.Task, 0, len(doc.Tasks))}
	for _, td := range doc.Tasks {
		priority, err := domain.ParsePriority(td.Priority)
		if err != nil {
			return nil, fmt.Errorf("parse archive: task %d: %w", td.ID, err)
		}
		t := &domain.Task{
			ID:        td.ID,
			Name:      td.Name,
			Info:      td.Info,
			Priority:  priority,
			Tags:      domain.NormalizeTags(td.Tags),
			Deps:      domain.NormalizeIDs(td.Dependencies),
			Created:   td.Created,
			Due:       td.Due,
			Completed: td.Completed,
			Discarded: td.Discarded,
		}
		for i, e := range td.TimeEntries {
			date, err := domain.ParseDate(e.LoggedDate)
			if err != nil {
				return nil, fmt.Errorf("parse archive: task %d: time entry %d: %w", td.ID, i, err)
			}
			t.TimeEntries = append(t.TimeEntries, domain.TimeEntry{
				LoggedDate: date,
				Message:    e.Message,
				Duration:   e.Duration,
			})
		}
		a.Tasks = append(a.Tasks, t)
	}
	return a, nil
}
