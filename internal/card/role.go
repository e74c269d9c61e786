package card

import "strings"

// PlayerRole is the hidden allegiance dealt to each player at game start.
type PlayerRole int

const (
	RoleUnknown PlayerRole = iota
	RoleOutlaw
	RoleDeputy
	RoleSheriff
	RoleRenegade
	RoleInvalid
)

var roleNames = map[PlayerRole]string{
	RoleUnknown:  "unknown",
	RoleOutlaw:   "outlaw",
	RoleDeputy:   "deputy",
	RoleSheriff:  "sheriff",
	RoleRenegade: "renegade",
	RoleInvalid:  "invalid",
}

func (r PlayerRole) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "invalid"
}

// ParsePlayerRole converts a role name into a PlayerRole value.
func ParsePlayerRole(s string) PlayerRole {
	switch strings.ToLower(s) {
	case "unknown":
		return RoleUnknown
	case "outlaw":
		return RoleOutlaw
	case "deputy":
		return RoleDeputy
	case "sheriff":
		return RoleSheriff
	case "renegade":
		return RoleRenegade
	}
	return RoleInvalid
}

// RolesForPlayerCount returns the role cards dealt for the given table size.
// The sheriff is always present; outlaws and deputies scale with seats.
func RolesForPlayerCount(n int) []PlayerRole {
	switch n {
	case 4:
		return []PlayerRole{RoleSheriff, RoleRenegade, RoleOutlaw, RoleOutlaw}
	case 5:
		return []PlayerRole{RoleSheriff, RoleRenegade, RoleOutlaw, RoleOutlaw, RoleDeputy}
	case 6:
		return []PlayerRole{RoleSheriff, RoleRenegade, RoleOutlaw, RoleOutlaw, RoleOutlaw, RoleDeputy}
	case 7:
		return []PlayerRole{RoleSheriff, RoleRenegade, RoleOutlaw, RoleOutlaw, RoleOutlaw, RoleDeputy, RoleDeputy}
	}
	return nil
}
