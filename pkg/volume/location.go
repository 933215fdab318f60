package volume

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Kind identifies the backing store of a volume location.
type Kind int

// Exported constants.
const (
	// KindLocal is a directory on this host.
	KindLocal Kind = iota
	// KindMemory is an empty in-memory volume.
	KindMemory
	// KindSFTP is a directory on an SFTP server.
	KindSFTP
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindMemory:
		return "memory"
	case KindSFTP:
		return "sftp"
	default:
		return "unknown"
	}
}

// Location describes where a volume lives.
type Location struct {
	Kind Kind

	// For local volumes
	LocalPath string

	// For SFTP volumes
	Host string
	Port int
	User string
	Path string // Remote path
}

// String renders the location the way it is written on the command line.
func (l *Location) String() string {
	switch l.Kind {
	case KindMemory:
		return "mem://"
	case KindSFTP:
		return fmt.Sprintf("sftp://%s@%s:%d/%s", l.User, l.Host, l.Port, l.Path)
	default:
		return l.LocalPath
	}
}

// ParseLocation parses a volume location.
// Supported forms:
//   - /media/sdcard (local directory)
//   - mem:// (in-memory volume)
//   - sftp://user@host:port/path (port defaults to 22)
func ParseLocation(location string) (*Location, error) {
	switch {
	case location == "":
		return nil, fmt.Errorf("volume location is required") //nolint:err113,perfsprint // Validation error
	case strings.HasPrefix(location, "mem://"):
		return &Location{Kind: KindMemory}, nil
	case strings.HasPrefix(location, "sftp://"):
		return parseSFTPURL(location)
	default:
		return &Location{Kind: KindLocal, LocalPath: location}, nil
	}
}

// parseSFTPURL parses an SFTP URL into its components.
//
//nolint:cyclop // Complexity from comprehensive SFTP URL validation (scheme, user, host, port, path)
func parseSFTPURL(sftpURL string) (*Location, error) {
	u, err := url.Parse(sftpURL) //nolint:varnamelen // u is idiomatic for URL
	if err != nil {
		return nil, fmt.Errorf("invalid SFTP URL: %w", err)
	}

	if u.User == nil || u.User.Username() == "" {
		return nil, fmt.Errorf("SFTP URL must include username (sftp://user@host/path)") //nolint:err113,perfsprint // URL validation with format guidance
	}
	user := u.User.Username()

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("SFTP URL must include host") //nolint:err113,perfsprint // URL validation error
	}

	port := 22
	if portStr := u.Port(); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid port number: %w", err)
		}
		if p < 1 || p > 65535 {
			return nil, fmt.Errorf("port out of range: %d", p) //nolint:err113 // URL validation with actual port
		}
		port = p
	}

	// SFTP path convention:
	//   sftp://user@host/path  → relative to home directory (strip leading /)
	//   sftp://user@host//path → absolute path /path (strip one /)
	//   sftp://user@host       → home directory (.)
	remotePath := u.Path
	//nolint:gocritic // if-else chain is clearer than switch for mixed conditions (OR, prefix check, fallthrough)
	if remotePath == "" || remotePath == "/" {
		remotePath = "."
	} else if strings.HasPrefix(remotePath, "//") {
		remotePath = remotePath[1:]
	} else {
		remotePath = strings.TrimPrefix(remotePath, "/")
	}

	return &Location{
		Kind: KindSFTP,
		Host: host,
		Port: port,
		User: user,
		Path: remotePath,
	}, nil
}
