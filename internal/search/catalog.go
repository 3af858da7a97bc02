package search

// Record is a catalog item as supplied by a catalog source
type Record struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Entry is a catalog item with its fields tokenized once at load time
type Entry struct {
	Name        string
	Description string
	NameWords   []string
	DescWords   []string
}

// Catalog is an ordered, read-only sequence of entries
type Catalog struct {
	entries []Entry
}

// NewCatalog tokenizes every record. The records slice is not retained.
func NewCatalog(records []Record) *Catalog {
	entries := make([]Entry, len(records))
	for i, r := range records {
		entries[i] = Entry{
			Name:        r.Name,
			Description: r.Description,
			NameWords:   Tokenize(r.Name),
			DescWords:   Tokenize(r.Description),
		}
	}
	return &Catalog{entries: entries}
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Records returns the source fields of every entry in catalog order
func (c *Catalog) Records() []Record {
	out := make([]Record, c.Len())
	for i := range out {
		out[i] = Record{Name: c.entries[i].Name, Description: c.entries[i].Description}
	}
	return out
}

// RecordFromMap validates a decoded record. Both name and description must be
// present and hold strings.
func RecordFromMap(index int, m map[string]any) (Record, error) {
	name, err := stringField(index, m, "name")
	if err != nil {
		return Record{}, err
	}
	desc, err := stringField(index, m, "description")
	if err != nil {
		return Record{}, err
	}
	return Record{Name: name, Description: desc}, nil
}

// RecordsFromMaps validates decoded records in order and stops at the first bad one
func RecordsFromMaps(raw []map[string]any) ([]Record, error) {
	records := make([]Record, 0, len(raw))
	for i, m := range raw {
		r, err := RecordFromMap(i, m)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func stringField(index int, m map[string]any, field string) (string, error) {
	v, ok := m[field]
	if !ok {
		return "", &MalformedEntryError{Index: index, Field: field, Reason: "is missing"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &MalformedEntryError{Index: index, Field: field, Reason: "is not a string"}
	}
	return s, nil
}
