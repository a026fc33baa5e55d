package filestore

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/toru/internal/domain"
)

// stateDocument is the on-disk form of the vault state snapshot.
type stateDocument struct {
	NextID int              `toml:"next_id"`
	Index  map[string][]int `toml:"index"`
	Graph  graphDocument    `toml:"graph"`
}

type graphDocument struct {
	Nodes []int            `toml:"nodes"`
	Edges map[string][]int `toml:"edges"` // Task ID -> IDs it depends on
}

func encodeState(state *domain.State) ([]byte, error) {
	doc := stateDocument{
		NextID: state.NextID,
		Index:  state.Index.Map(),
		Graph: graphDocument{
			Nodes: state.Graph.Nodes(),
			Edges: make(map[string][]int),
		},
	}
	if doc.Graph.Nodes == nil {
		doc.Graph.Nodes = []int{}
	}
	for from, tos := range state.Graph.Edges() {
		doc.Graph.Edges[strconv.Itoa(from)] = tos
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

func decodeState(data []byte) (*domain.State, error) {
	var doc stateDocument
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}

	edges := make(map[int][]int, len(doc.Graph.Edges))
	for key, tos := range doc.Graph.Edges {
		from, ok := domain.ParseID(key)
		if !ok {
			return nil, fmt.Errorf("parse state: invalid graph node %q", key)
		}
		edges[from] = tos
	}
	return &domain.State{
		NextID: doc.NextID,
		Index:  domain.NewNameIndexFromMap(doc.Index),
		Graph:  domain.NewGraphFromEdges(doc.Graph.Nodes, edges),
	}, nil
}
