package family

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/lineage/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ReadJSON decodes a dataset from r.
//
// The input is a JSON object with a "people" array and optional "focalId",
// "events" and "notes":
//
//	{
//	  "focalId": "c",
//	  "people": [
//	    {"id": "b", "name": "Bea", "childIds": ["c"]},
//	    {"id": "c", "name": "Cal", "parentIds": ["b"]}
//	  ]
//	}
//
// ReadJSON only decodes. Call [Dataset.Validate] to check the result.
func ReadJSON(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode dataset")
	}
	return &ds, nil
}

// ReadFile reads and validates the dataset at path.
func ReadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ds, err := ReadJSON(f)
	if err != nil {
		return nil, err
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Validate checks the dataset contract the graph builder relies on:
//   - every person, event and note has its required fields
//   - person identifiers are unique
//   - every parent, spouse and child reference names an existing person
//   - an explicit focal identifier names an existing person
//
// Events and notes referencing unknown persons are rejected as well.
// The first violation is returned as an INVALID_DATASET error.
func (d *Dataset) Validate() error {
	if err := validate.Struct(d); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDataset, err, "dataset fields")
	}

	ids := make(map[string]struct{}, len(d.People))
	for _, p := range d.People {
		if _, dup := ids[p.ID]; dup {
			return errors.New(errors.ErrCodeInvalidDataset, "duplicate person id %q", p.ID)
		}
		ids[p.ID] = struct{}{}
	}

	check := func(owner, kind string, refs []string) error {
		for _, ref := range refs {
			if _, ok := ids[ref]; !ok {
				return errors.New(errors.ErrCodeInvalidDataset, "person %q: unknown %s %q", owner, kind, ref)
			}
		}
		return nil
	}
	for _, p := range d.People {
		if err := check(p.ID, "parent", p.ParentIDs); err != nil {
			return err
		}
		if err := check(p.ID, "spouse", p.SpouseIDs); err != nil {
			return err
		}
		if err := check(p.ID, "child", p.ChildIDs); err != nil {
			return err
		}
	}

	if d.FocalID != "" {
		if _, ok := ids[d.FocalID]; !ok {
			return errors.New(errors.ErrCodeInvalidDataset, "unknown focal person %q", d.FocalID)
		}
	}
	for _, e := range d.Events {
		if _, ok := ids[e.PersonID]; !ok {
			return errors.New(errors.ErrCodeInvalidDataset, "event %q: unknown person %q", e.Kind, e.PersonID)
		}
	}
	for _, n := range d.Notes {
		if _, ok := ids[n.PersonID]; !ok {
			return errors.New(errors.ErrCodeInvalidDataset, "note: unknown person %q", n.PersonID)
		}
	}
	return nil
}
