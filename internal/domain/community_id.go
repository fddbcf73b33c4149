package domain

// CommunityID identifies a community (a Discord guild in the surrounding
// product). IDs are numeric snowflake strings.
type CommunityID struct {
	value string
}

const maxCommunityIDLength = 20

func CommunityIDFromString(s string) (CommunityID, error) {
	if s == "" || len(s) > maxCommunityIDLength {
		return CommunityID{}, ErrInvalidCommunityID
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return CommunityID{}, ErrInvalidCommunityID
		}
	}

	return CommunityID{value: s}, nil
}

func (c CommunityID) String() string {
	return c.value
}

func (c CommunityID) IsZero() bool {
	return c.value == ""
}

func (c CommunityID) Equals(other CommunityID) bool {
	return c.value == other.value
}
