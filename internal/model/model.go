package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Project is one entry of projects.json.
type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Link        string `json:"link,omitempty"`
}

// Skill is one entry of skills.json. Category is the grouping key.
type Skill struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Level    string `json:"level,omitempty"`
}

// Photo is one entry of photos.json.
type Photo struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image"`
}

// Media types recognised by the media renderer. Anything else is dropped.
const (
	MediaBook  = "Book"
	MediaMovie = "Movie"
)

// MediaEntry is one entry of media.json.
type MediaEntry struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Author      string `json:"author,omitempty"`
	Director    string `json:"director,omitempty"`
	Year        Year   `json:"year,omitempty"`
	Description string `json:"description,omitempty"`
}

// Year holds a release year written either as a JSON string or a number.
type Year string

func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*y = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*y = Year(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("year must be a string or a number, got %s", data)
	}
	*y = Year(n.String())
	return nil
}

func (y Year) String() string {
	return string(y)
}
