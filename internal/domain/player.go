package domain

import "time"

// Account is a vendor account known to the league. Accounts are keyed by
// the vendor's stable account id, never by display name.
type Account struct {
	ID          string    `json:"id"`
	GameName    string    `json:"game_name"`
	TagLine     string    `json:"tag_line"`
	DisplayName string    `json:"display_name"`
	IsPrimary   bool      `json:"is_primary"`
	PlayerID    *int64    `json:"player_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AccountInfo is a lightweight account struct used for caching
type AccountInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
