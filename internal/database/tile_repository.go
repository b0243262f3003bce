package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/verdania/pkg/models"
)

// TileRepository handles database operations for the tile catalog
type TileRepository struct{}

// NewTileRepository creates a new repository instance
func NewTileRepository() *TileRepository {
	return &TileRepository{}
}

// GetByID returns a tile by its id
func (r *TileRepository) GetByID(id string) (*models.Tile, error) {
	var tile models.Tile
	err := DB.Get(&tile, "SELECT * FROM tiles WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get tile: %v", err)
	}
	return &tile, nil
}

// GetAll returns every tile, ordered by section and position
func (r *TileRepository) GetAll() ([]models.Tile, error) {
	var tiles []models.Tile
	err := DB.Select(&tiles, "SELECT * FROM tiles ORDER BY section ASC, position ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to get tiles: %v", err)
	}
	return tiles, nil
}

// GetBySection returns the tiles of one section in position order
func (r *TileRepository) GetBySection(section string) ([]models.Tile, error) {
	var tiles []models.Tile
	err := DB.Select(&tiles,
		"SELECT * FROM tiles WHERE section = $1 ORDER BY position ASC", section)
	if err != nil {
		return nil, fmt.Errorf("failed to get tiles for section: %v", err)
	}
	return tiles, nil
}

// GetUnseenForUser returns tiles the user has no mastery record for yet,
// i.e. candidates for the next learning mission.
func (r *TileRepository) GetUnseenForUser(userID int64, limit int) ([]models.Tile, error) {
	var tiles []models.Tile
	err := DB.Select(&tiles, `
		SELECT t.* FROM tiles t
		LEFT JOIN mastery_records m ON m.unit_id = t.id AND m.user_id = $1
		WHERE m.id IS NULL
		ORDER BY t.section ASC, t.position ASC
		LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get unseen tiles: %v", err)
	}
	return tiles, nil
}

// CreateOrUpdate inserts the tile or updates its metadata. Returns true when
// a new row was created.
func (r *TileRepository) CreateOrUpdate(tile *models.Tile) (bool, error) {
	var existing string
	err := DB.QueryRow("SELECT id FROM tiles WHERE id = $1", tile.ID).Scan(&existing)
	if err == nil {
		_, err = DB.Exec(`
			UPDATE tiles SET
				section = $1,
				title = $2,
				position = $3,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = $4`,
			tile.Section, tile.Title, tile.Position, tile.ID)
		if err != nil {
			return false, fmt.Errorf("failed to update tile: %v", err)
		}
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("failed to look up tile: %v", err)
	}

	_, err = DB.Exec(`
		INSERT INTO tiles (id, section, title, position)
		VALUES ($1, $2, $3, $4)`,
		tile.ID, tile.Section, tile.Title, tile.Position)
	if err != nil {
		return false, fmt.Errorf("failed to insert tile: %v", err)
	}
	return true, nil
}
