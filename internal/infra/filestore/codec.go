package filestore

import (
	"bytes"
	"fmt"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/toru/internal/domain"
)

// taskDocument is the on-disk form of a task. Field order is the order
// keys appear in the file.
type taskDocument struct {
	ID           int                 `toml:"id"`
	Name         string              `toml:"name"`
	Info         string              `toml:"info,omitempty"`
	Priority     string              `toml:"priority"`
	Tags         []string            `toml:"tags"`
	Dependencies []int               `toml:"dependencies"`
	Created      time.Time           `toml:"created"`
	Due          *time.Time          `toml:"due,omitempty"`
	Completed    *time.Time          `toml:"completed,omitempty"`
	Discarded    bool                `toml:"discarded"`
	TimeEntries  []timeEntryDocument `toml:"time_entries,omitempty"`
}

type timeEntryDocument struct {
	LoggedDate toml.LocalDate  `toml:"logged_date"`
	Message    string          `toml:"message,omitempty"`
	Duration   domain.Duration `toml:"duration,inline"`
}

// TOMLCodec encodes tasks as TOML documents and validates them against the
// task schema when decoding.
type TOMLCodec struct{}

var _ domain.TaskCodec = TOMLCodec{}

// Encode renders a task.
func (TOMLCodec) Encode(task *domain.Task) ([]byte, error) {
	doc := taskDocument{
		ID:           task.ID,
		Name:         task.Name,
		Info:         task.Info,
		Tags:         task.Tags,
		Dependencies: task.Deps,
		Priority:     string(task.Priority),
		Created:      task.Created,
		Due:          task.Due,
		Completed:    task.Completed,
		Discarded:    task.Discarded,
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	if doc.Dependencies == nil {
		doc.Dependencies = []int{}
	}
	for _, e := range task.TimeEntries {
		doc.TimeEntries = append(doc.TimeEntries, timeEntryDocument{
			LoggedDate: toml.LocalDate{Year: e.LoggedDate.Year(), Month: int(e.LoggedDate.Month()), Day: e.LoggedDate.Day()},
			Message:    e.Message,
			Duration:   e.Duration,
		})
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode task %d: %w", task.ID, err)
	}
	return buf.Bytes(), nil
}

// Decode parses and validates a task document, including the naming rule.
// Tags and dependencies are normalized; a missing priority means low.
func (TOMLCodec) Decode(data []byte) (*domain.Task, error) {
	if err := validateTaskDocument(data); err != nil {
		return nil, err
	}

	var doc taskDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidTaskFile, err)
	}

	priority, err := domain.ParsePriority(doc.Priority)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidTaskFile, err)
	}

	task := &domain.Task{
		ID:        doc.ID,
		Name:      doc.Name,
		Info:      doc.Info,
		Tags:      domain.NormalizeTags(doc.Tags),
		Deps:      domain.NormalizeIDs(doc.Dependencies),
		Priority:  priority,
		Created:   doc.Created,
		Due:       doc.Due,
		Completed: doc.Completed,
		Discarded: doc.Discarded,
	}
	for _, e := range doc.TimeEntries {
		task.TimeEntries = append(task.TimeEntries, domain.TimeEntry{
			LoggedDate: e.LoggedDate.AsTime(time.UTC),
			Message:    e.Message,
			Duration:   e.Duration,
		})
	}
	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidTaskFile, err)
	}
	return task, nil
}
