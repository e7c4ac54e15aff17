package mirror

import (
	"encoding/json"

	"github.com/samber/oops"
)

// Hand-written queries, one per read. The mirror's server-side filtering is
// not relied on; every row set is filtered client-side after decoding.
const (
	queryPositions = `query {
  diPositionModels(first: 200) {
    edges { node { game_id player x y } }
  }
}`
	queryGames = `query {
  diGameModels(first: 100) {
    edges { node { game_id world_id state } }
  }
}`
	queryWorlds = `query {
  diWorldModels(first: 100) {
    edges { node { world_id owner } }
  }
}`
	queryAssets = `query {
  diCollectedAssetModels(first: 500) {
    edges { node { game_id participant asset_id } }
  }
}`
	queryUpgrades = `query {
  diUpgradeModels(first: 100) {
    edges { node { player time_extension_level } }
  }
}`
)

type PositionRow struct {
	GameID string  `json:"game_id"`
	Player FlexInt `json:"player"`
	X      FlexInt `json:"x"`
	Y      FlexInt `json:"y"`
}

type GameRow struct {
	GameID  string  `json:"game_id"`
	WorldID string  `json:"world_id"`
	State   FlexInt `json:"state"`
}

type WorldRow struct {
	WorldID string `json:"world_id"`
	Owner   string `json:"owner"`
}

type AssetRow struct {
	GameID      string  `json:"game_id"`
	Participant FlexInt `json:"participant"`
	AssetID     FlexInt `json:"asset_id"`
}

type UpgradeRow struct {
	Player             string  `json:"player"`
	TimeExtensionLevel FlexInt `json:"time_extension_level"`
}

type connection struct {
	Edges []struct {
		Node json.RawMessage `json:"node"`
	} `json:"edges"`
}

// decodeNodes unwraps the connection envelope under key and decodes each
// node into out's element type.
func decodeNodes[T any](data json.RawMessage, key string) ([]T, error) {
	var envelope map[string]connection
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, oops.With("key", key).Wrapf(err, "decode connection")
	}
	conn, ok := envelope[key]
	if !ok {
		// Missing field means no data this poll, not an error to propagate.
		return nil, nil
	}
	rows := make([]T, 0, len(conn.Edges))
	for _, edge := range conn.Edges {
		var row T
		if err := json.Unmarshal(edge.Node, &row); err != nil {
			return nil, oops.With("key", key).Wrapf(err, "decode row")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// AssetCounts groups collected-asset rows for one game into per-participant
// per-asset counts. Sentinel participants are excluded.
func AssetCounts(rows []AssetRow, gameID string) map[int]map[int]int {
	counts := make(map[int]map[int]int)
	for _, row := range rows {
		if !SameGameID(row.GameID, gameID) {
			continue
		}
		participant := row.Participant.Int()
		if participant == SentinelParticipant {
			continue
		}
		perAsset, ok := counts[participant]
		if !ok {
			perAsset = make(map[int]int)
			counts[participant] = perAsset
		}
		perAsset[row.AssetID.Int()]++
	}
	return counts
}
