// Package content provides the built-in room list a new game starts from.
package content

import (
	_ "embed"
	"fmt"

	"github.com/tatianab/gacha-rooms/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed rooms.yaml
var defaultRooms []byte

// DefaultRooms builds a fresh copy of the built-in rooms, all locked.
func DefaultRooms() ([]*models.Room, error) {
	return ParseRooms(defaultRooms)
}

// ParseRooms builds rooms from a YAML room list.
func ParseRooms(data []byte) ([]*models.Room, error) {
	var snaps []models.RoomSnapshot
	if err := yaml.Unmarshal(data, &snaps); err != nil {
		return nil, fmt.Errorf("parse rooms: %w", err)
	}
	if len(snaps) == 0 {
		return nil, fmt.Errorf("parse rooms: no rooms defined")
	}
	rooms := make([]*models.Room, 0, len(snaps))
	for i, s := range snaps {
		if s.Number != i+1 {
			return nil, fmt.Errorf("parse rooms: room at position %d is numbered %d", i+1, s.Number)
		}
		s.Locked = true
		r, err := models.RestoreRoom(s)
		if err != nil {
			return nil, fmt.Errorf("parse rooms: %w", err)
		}
		rooms = append(rooms, r)
	}
	return rooms, nil
}
