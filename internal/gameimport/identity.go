package gameimport

import (
	"fmt"

	"github.com/league-stats/internal/domain"
	"github.com/league-stats/internal/riot"
)

// participantsPerGame is the number of vendor participant slots (ids 1..10)
const participantsPerGame = domain.NumSides * domain.NumRoles

// Identity is who a vendor participant slot is for the duration of one import
type Identity struct {
	ParticipantID int
	AccountID     string
	GameName      string
	TagLine       string
	DisplayName   string
	ChampionID    int
	Side          domain.Side
	Role          domain.Role
}

// Roster maps participant slots to identities and side/role pairs back to slots.
// A Roster returned by ResolveIdentities always has all 10 slots filled.
type Roster struct {
	byParticipant [participantsPerGame + 1]Identity
	bySeat        [domain.NumSides][domain.NumRoles]int
}

// Identity returns the identity of a participant id, false for ids outside 1..10
func (r *Roster) Identity(participantID int) (Identity, bool) {
	if participantID < 1 || participantID > participantsPerGame {
		return Identity{}, false
	}
	return r.byParticipant[participantID], true
}

// ParticipantAt returns the participant id playing a role on a side
func (r *Roster) ParticipantAt(side domain.Side, role domain.Role) int {
	return r.bySeat[side.Index()][role]
}

// Identities returns all identities ordered by side, then role
func (r *Roster) Identities() []Identity {
	out := make([]Identity, 0, participantsPerGame)
	for _, side := range domain.Sides {
		for _, role := range domain.Roles {
			out = append(out, r.byParticipant[r.ParticipantAt(side, role)])
		}
	}
	return out
}

// ResolveIdentities maps the vendor participants to accounts, roles and sides.
// Any participant without a valid team position aborts the import; there is
// no fallback to the role or lane fields.
func ResolveIdentities(matchID string, participants []riot.MatchParticipant) (*Roster, error) {
	if len(participants) != participantsPerGame {
		return nil, &domain.InvalidInputError{
			MatchID: matchID,
			Reason:  fmt.Sprintf("expected %d participants, got %d", participantsPerGame, len(participants)),
		}
	}

	roster := &Roster{}
	for _, p := range participants {
		invalid := func(reason string) error {
			return &domain.InvalidInputError{
				MatchID:       matchID,
				ParticipantID: p.ParticipantID,
				AccountID:     p.PUUID,
				TeamPosition:  p.TeamPosition,
				Role:          p.Role,
				Lane:          p.Lane,
				Reason:        reason,
			}
		}

		if p.ParticipantID < 1 || p.ParticipantID > participantsPerGame {
			return nil, invalid("participant id out of range")
		}
		if roster.byParticipant[p.ParticipantID].ParticipantID != 0 {
			return nil, invalid("duplicate participant id")
		}
		if p.PUUID == "" {
			return nil, invalid("missing account id")
		}
		side, ok := domain.ParseSide(p.TeamID)
		if !ok {
			return nil, invalid(fmt.Sprintf("invalid team id %d", p.TeamID))
		}
		role, ok := domain.RoleFromTeamPosition(p.TeamPosition)
		if !ok {
			return nil, invalid("unrecognized team position")
		}
		if roster.bySeat[side.Index()][role] != 0 {
			return nil, invalid(fmt.Sprintf("role %s already taken on side %d", role, side))
		}

		roster.byParticipant[p.ParticipantID] = Identity{
			ParticipantID: p.ParticipantID,
			AccountID:     p.PUUID,
			GameName:      p.RiotIdGameName,
			TagLine:       p.RiotIdTagline,
			DisplayName:   p.DisplayName(),
			ChampionID:    p.ChampionID,
			Side:          side,
			Role:          role,
		}
		roster.bySeat[side.Index()][role] = p.ParticipantID
	}

	return roster, nil
}

// newAccount builds the minimal primary account record for a first-seen identity
func newAccount(id Identity) domain.Account {
	return domain.Account{
		ID:          id.AccountID,
		GameName:    id.GameName,
		TagLine:     id.TagLine,
		DisplayName: id.DisplayName,
		IsPrimary:   true,
	}
}
