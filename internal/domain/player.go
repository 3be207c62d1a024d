package domain

// StartingBalance is the sheckles a freshly registered player receives.
const StartingBalance = 100

// Player is a registered participant. Money is the sheckle balance and is
// never allowed below zero; the non-negative invariant is enforced at spend
// time by conditional updates.
type Player struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Money    int    `json:"money"`
	IsAdmin  bool   `json:"is_admin"`
	RoomID   string `json:"room_id,omitempty"`
	Level    int    `json:"level"`
	XP       int    `json:"xp"`
}

// Room is a multiplayer lobby players can share. Local weather events target
// the crops of one room's players.
type Room struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	CreatedBy string `json:"created_by"`
}
