package models

// Tile represents one learnable concept section on the Verdania map
type Tile struct {
	ID        string `json:"id" db:"id"` // Opaque stable identifier, e.g. "verdania_s1_t1"
	Section   string `json:"section" db:"section"`
	Title     string `json:"title" db:"title"`
	Position  int    `json:"position" db:"position"` // Order within the section
	CreatedAt string `json:"created_at" db:"created_at"`
	UpdatedAt string `json:"updated_at" db:"updated_at"`
}
