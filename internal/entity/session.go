package entity

import "time"

type ImageInfo struct {
	Index  int    `json:"index"`
	Label  string `json:"label"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type SessionResponse struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Images    []ImageInfo `json:"images"`
}

type MoveResponse struct {
	Index  int         `json:"index"`
	Images []ImageInfo `json:"images"`
}

type PaletteEntry struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}
