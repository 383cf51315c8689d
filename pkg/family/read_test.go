package family

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/lineage/pkg/errors"
)

const sample = `{
  "focalId": "c",
  "people": [
    {"id": "a", "name": "Ada"},
    {"id": "b", "name": "Bea", "childIds": ["c"], "biography": "Born in a small town."},
    {"id": "c", "parentIds": ["b"], "generation": 0, "status": "complete"}
  ],
  "events": [{"personId": "b", "kind": "birth", "date": "1950"}],
  "notes": [{"personId": "c", "text": "focal"}]
}`

func TestReadJSON(t *testing.T) {
	ds, err := ReadJSON(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if len(ds.People) != 3 {
		t.Fatalf("people = %d, want 3", len(ds.People))
	}
	if ds.FocalID != "c" {
		t.Errorf("FocalID = %q, want c", ds.FocalID)
	}
	c, ok := ds.Person("c")
	if !ok {
		t.Fatal("Person(c) not found")
	}
	if c.Generation == nil || *c.Generation != 0 {
		t.Errorf("c.Generation = %v, want 0", c.Generation)
	}
	if c.DisplayName() != "c" {
		t.Errorf("DisplayName() = %q, want id fallback", c.DisplayName())
	}
	if got := ds.EventsFor("b"); len(got) != 1 || got[0].Kind != "birth" {
		t.Errorf("EventsFor(b) = %v", got)
	}
	if got := ds.NotesFor("c"); len(got) != 1 {
		t.Errorf("NotesFor(c) = %v", got)
	}
	if err := ds.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestReadJSONMalformed(t *testing.T) {
	_, err := ReadJSON(strings.NewReader("{not json"))
	if !errors.Is(err, errors.ErrCodeInvalidDataset) {
		t.Errorf("error = %v, want INVALID_DATASET", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		ds      Dataset
		wantErr string
	}{
		{
			name: "valid",
			ds:   Dataset{People: []Person{{ID: "x"}, {ID: "y", ParentIDs: []string{"x"}}}},
		},
		{
			name:    "missing id",
			ds:      Dataset{People: []Person{{Name: "nobody"}}},
			wantErr: "dataset fields",
		},
		{
			name:    "duplicate id",
			ds:      Dataset{People: []Person{{ID: "x"}, {ID: "x"}}},
			wantErr: "duplicate person id",
		},
		{
			name:    "unknown child",
			ds:      Dataset{People: []Person{{ID: "x", ChildIDs: []string{"z"}}}},
			wantErr: `unknown child "z"`,
		},
		{
			name:    "unknown spouse",
			ds:      Dataset{People: []Person{{ID: "x", SpouseIDs: []string{"z"}}}},
			wantErr: `unknown spouse "z"`,
		},
		{
			name:    "unknown focal",
			ds:      Dataset{FocalID: "q", People: []Person{{ID: "x"}}},
			wantErr: "unknown focal person",
		},
		{
			name:    "orphan event",
			ds:      Dataset{People: []Person{{ID: "x"}}, Events: []Event{{PersonID: "z", Kind: "birth"}}},
			wantErr: "unknown person",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ds.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !errors.Is(err, errors.ErrCodeInvalidDataset) {
				t.Errorf("code = %q, want INVALID_DATASET", errors.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "family.json")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}

	ds, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if len(ds.People) != 3 {
		t.Errorf("people = %d, want 3", len(ds.People))
	}

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}
