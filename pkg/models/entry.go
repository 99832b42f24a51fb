package models

import "encoding/json"

// GenreRef is one element of an entry's genres field. The content source
// returns genres in three shapes: a fully resolved genre object, a bare
// reference stub carrying only a uid, or a plain string. All three decode
// into this one representation so downstream code never re-inspects shape.
type GenreRef struct {
	UID   string `json:"uid,omitempty"`
	Title string `json:"title,omitempty"`
	Slug  string `json:"slug,omitempty"`
}

// Resolved reports whether the reference carries enough data to make a
// category judgment. Stubs (uid only, no title) are unresolved.
func (g GenreRef) Resolved() bool {
	return g.Title != ""
}

func (g *GenreRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		g.Title = s
		return nil
	}

	var obj struct {
		UID   string `json:"uid"`
		Title string `json:"title"`
		Name  string `json:"name"`
		Slug  string `json:"slug"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	g.UID = obj.UID
	g.Title = obj.Title
	if g.Title == "" {
		g.Title = obj.Name
	}
	g.Slug = obj.Slug
	return nil
}

// EntryRef is a reference to another entry. Depending on whether the source
// dereferenced the field it arrives either as an object or as a raw uid
// string.
type EntryRef struct {
	UID   string `json:"uid,omitempty"`
	Title string `json:"title,omitempty"`
}

func (r *EntryRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.UID = s
		return nil
	}

	var obj struct {
		UID   string `json:"uid"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.UID = obj.UID
	r.Title = obj.Title
	return nil
}
