// Package models defines the domain types shared across Quire packages.
package models

import "time"

// PageMetadata is the lightweight view of a workspace file returned by storage listings.
type PageMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Link is a directed wikilink edge between two pages.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}
