package core

// Field is a tagged update for a single record field. The zero value
// leaves the field untouched; Set replaces it; Clear removes it. This
// makes "field not mentioned" and "field explicitly cleared" distinct
// operations instead of both looking like an absent value.
type Field[T any] struct {
	op    fieldOp
	value T
}

type fieldOp int

const (
	fieldKeep fieldOp = iota
	fieldSet
	fieldClear
)

// Set returns a Field that replaces the target with v.
func Set[T any](v T) Field[T] {
	return Field[T]{op: fieldSet, value: v}
}

// Clear returns a Field that removes the target value.
func Clear[T any]() Field[T] {
	return Field[T]{op: fieldClear}
}

// IsSet reports whether the field carries a replacement value.
func (f Field[T]) IsSet() bool { return f.op == fieldSet }

// IsClear reports whether the field requests removal.
func (f Field[T]) IsClear() bool { return f.op == fieldClear }

// Value returns the replacement value; meaningful only when IsSet.
func (f Field[T]) Value() T { return f.value }

// EntryPatch is a partial update for a TimeEntry. Unset fields keep
// their prior value. Clearing EndTime marks the entry running again;
// clearing ProjectID or CategoryID detaches the entry from them.
type EntryPatch struct {
	Description Field[string]
	StartTime   Field[int64]
	EndTime     Field[int64]
	ProjectID   Field[string]
	CategoryID  Field[string]
}

// Apply merges the patch onto e and returns the result.
func (p EntryPatch) Apply(e TimeEntry) TimeEntry {
	if p.Description.IsSet() {
		e.Description = p.Description.Value()
	}
	if p.StartTime.IsSet() {
		e.StartTime = p.StartTime.Value()
	}
	switch {
	case p.EndTime.IsSet():
		v := p.EndTime.Value()
		e.EndTime = &v
	case p.EndTime.IsClear():
		e.EndTime = nil
	}
	switch {
	case p.ProjectID.IsSet():
		e.ProjectID = p.ProjectID.Value()
	case p.ProjectID.IsClear():
		e.ProjectID = ""
	}
	switch {
	case p.CategoryID.IsSet():
		e.CategoryID = p.CategoryID.Value()
	case p.CategoryID.IsClear():
		e.CategoryID = ""
	}
	return e
}

// CategoryPatch is a partial update for a Category.
type CategoryPatch struct {
	Name              Field[string]
	Color             Field[string]
	WeeklyTargetHours Field[float64]
}

// Apply merges the patch onto c and returns the result.
func (p CategoryPatch) Apply(c Category) Category {
	if p.Name.IsSet() {
		c.Name = p.Name.Value()
	}
	if p.Color.IsSet() {
		c.Color = p.Color.Value()
	}
	switch {
	case p.WeeklyTargetHours.IsSet():
		v := p.WeeklyTargetHours.Value()
		c.WeeklyTargetHours = &v
	case p.WeeklyTargetHours.IsClear():
		c.WeeklyTargetHours = nil
	}
	return c
}
