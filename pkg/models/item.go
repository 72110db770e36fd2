package models

// Item is the normalized, internal form of a recommendable entry
// (anime or game) used by the catalog, matcher and API layer.
//
// All snapshot records are mapped into this structure first,
// then every response is served from this representation.
type Item struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	ImageURL *string  `json:"image_url"`
	Rating   float64  `json:"rating"`
	Type     string   `json:"type"` // TypeAnime or TypeGame
	Metadata Metadata `json:"metadata"`
}

// Metadata carries the secondary fields of an Item. Year and Price are
// pointers because many snapshot sources simply do not have them; both
// serialize as explicit nulls so clients see a stable shape.
type Metadata struct {
	Genre      string   `json:"genre"`
	Year       *int     `json:"year"`
	Popularity int      `json:"popularity"`
	Price      *float64 `json:"price"`
}

// Supported item domains.
const (
	TypeAnime = "anime"
	TypeGame  = "game"
)
