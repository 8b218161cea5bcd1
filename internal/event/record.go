package event

import "time"

// Record is the structured form of a drafted calendar event. Every field is
// independently optional; a nil pointer means the field was never provided,
// which is distinct from an empty string.
type Record struct {
	Name        *string
	Start       *time.Time
	End         *time.Time
	Location    *string
	Description *string
}

// Valid is a Record that has passed validation and carries everything the
// scheduling backend requires. Location stays optional.
type Valid struct {
	Name        string
	Start       time.Time
	End         time.Time
	Location    *string
	Description string
}

// IsEmpty reports whether no field of the record is present.
func (r Record) IsEmpty() bool {
	return r.Name == nil && r.Start == nil && r.End == nil && r.Location == nil && r.Description == nil
}

// Validate checks that the record can be turned into a schedulable event.
// It returns one human-readable problem per missing required field so the
// user can fix them all in a single edit.
func (r Record) Validate() (Valid, []string) {
	var problems []string
	if r.Name == nil {
		problems = append(problems, "Please provide a name for your event.")
	}
	if r.Start == nil {
		problems = append(problems, "Please provide a start time for your event.")
	}
	if r.End == nil {
		problems = append(problems, "Please provide an end time for your event.")
	}
	if r.Description == nil {
		problems = append(problems, "Please provide a description for your event.")
	}
	if len(problems) > 0 {
		return Valid{}, problems
	}

	return Valid{
		Name:        *r.Name,
		Start:       *r.Start,
		End:         *r.End,
		Location:    r.Location,
		Description: *r.Description,
	}, nil
}

// Record converts back to the all-optional form, e.g. for re-rendering a
// confirmed event through the draft renderer.
func (v Valid) Record() Record {
	return Record{
		Name:        &v.Name,
		Start:       &v.Start,
		End:         &v.End,
		Location:    v.Location,
		Description: &v.Description,
	}
}

// Text returns a pointer to s, for building records with present fields.
func Text(s string) *string {
	return &s
}

// Instant returns a pointer to t.
func Instant(t time.Time) *time.Time {
	return &t
}
