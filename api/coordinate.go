package api

import "github.com/sheikhrachel/go-gol-server/model"

// Coordinate is the wire form of a living cell
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func toEntities(coords []Coordinate) []model.Entity {
	out := make([]model.Entity, len(coords))
	for i, c := range coords {
		out[i] = model.NewEntity(c.X, c.Y)
	}
	return out
}

// toCoordinates sorts entities so responses are deterministic
func toCoordinates(entities []model.Entity) []Coordinate {
	model.SortEntities(entities)
	out := make([]Coordinate, len(entities))
	for i, e := range entities {
		out[i] = Coordinate{X: e.X, Y: e.Y}
	}
	return out
}
