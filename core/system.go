package core

// SysVersion the schema version this build requires. Migrate stores
// it; workers refuse to start against an older database.
const SysVersion int64 = 1

// System stores runtime identity and capabilities.
type System struct {
	ClientID       string
	Admins         []string
	Minters        []string
	RewardAssetID  string
	Rate           uint64
	PriceThreshold int
	Location       string
	Version        string
}

// IsAdmin is admin
func (s *System) IsAdmin(userID string) bool {
	if len(s.Admins) == 0 {
		return false
	}

	for _, a := range s.Admins {
		if a == userID {
			return true
		}
	}

	return false
}

// IsMinter reports whether the client may issue reward units.
func (s *System) IsMinter(clientID string) bool {
	if len(s.Minters) == 0 {
		return false
	}

	for _, m := range s.Minters {
		if m == clientID {
			return true
		}
	}

	return false
}
