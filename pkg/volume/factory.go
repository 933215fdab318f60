package volume

import (
	"fmt"
)

// OpenVolume connects to the volume at location. Each call is one attempt;
// callers that want to wait for a card retry on error.
func OpenVolume(location string) (Volume, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}

	return OpenLocation(loc)
}

// OpenLocation connects to an already parsed location.
func OpenLocation(loc *Location) (Volume, error) {
	switch loc.Kind {
	case KindMemory:
		return NewMemVolume(), nil
	case KindSFTP:
		conn, err := Connect(loc.Host, loc.Port, loc.User)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to %s@%s:%d: %w",
				loc.User, loc.Host, loc.Port, err)
		}

		return NewSFTPVolume(conn, loc.Path), nil
	default:
		vol, err := NewLocalVolume(loc.LocalPath)
		if err != nil {
			return nil, err
		}

		return vol, nil
	}
}
