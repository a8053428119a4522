package response

import "github.com/zhuravskayyar/cardastica-server/internal/services/presence"

// OnlineList is the response for the online players listing. Count is the
// filtered total, independent of any limit truncation of List.
type OnlineList struct {
	OK    bool                    `json:"ok"`
	Count int                     `json:"count"`
	List  []presence.OnlinePlayer `json:"list"`
}

// OnlineListFromSnapshot wraps a registry snapshot
func OnlineListFromSnapshot(snap presence.Snapshot) OnlineList {
	return OnlineList{
		OK:    true,
		Count: snap.Count,
		List:  snap.List,
	}
}

// Player is the response for a single player's full public record
type Player struct {
	OK     bool                 `json:"ok"`
	Player *presence.PlayerView `json:"player"`
}

// PlayerFromView wraps a registry lookup result
func PlayerFromView(view *presence.PlayerView) Player {
	return Player{OK: true, Player: view}
}
