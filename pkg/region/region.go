// Package region knows about the regional releases of the game and how to find them on disk.
package region

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/oneconcern/desfixer/pkg/fixer/status"
	"github.com/spf13/afero"
)

// ContentDirName is the directory of a title holding its encrypted content
const ContentDirName = "USRDIR"

// Region identifies a regional release of the game
type Region uint8

const (
	// Unknown is the zero value: no release could be identified
	Unknown Region = iota
	// US release (NPUB30910)
	US
	// EU release (NPEB01202)
	EU
	// JP release (NPJA00102)
	JP
)

var titleIDs = map[Region]string{
	US: "NPUB30910",
	EU: "NPEB01202",
	JP: "NPJA00102",
}

// All returns the known regions, in detection order
func All() []Region {
	return []Region{US, EU, JP}
}

// TitleID returns the PSN title ID of the release, or "" when unknown
func (r Region) TitleID() string {
	return titleIDs[r]
}

// Known is true for any region but Unknown
func (r Region) Known() bool {
	_, ok := titleIDs[r]
	return ok
}

func (r Region) String() string {
	switch r {
	case US:
		return "US"
	case EU:
		return "EU"
	case JP:
		return "JP"
	default:
		return "unknown"
	}
}

// MarshalText renders the region name
func (r Region) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses a region name, as accepted by Parse
func (r *Region) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// TitleDir is the install directory of the release under root
func (r Region) TitleDir(root string) string {
	if !r.Known() {
		return ""
	}
	return filepath.Join(root, r.TitleID())
}

// ContentDir is the USRDIR of the release under root
func (r Region) ContentDir(root string) string {
	if !r.Known() {
		return ""
	}
	return filepath.Join(r.TitleDir(root), ContentDirName)
}

// Parse a region name (us, eu or jp, case insensitive). The empty string and "unknown" yield Unknown.
func Parse(s string) (Region, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unknown":
		return Unknown, nil
	case "us":
		return US, nil
	case "eu":
		return EU, nil
	case "jp":
		return JP, nil
	default:
		return Unknown, status.ErrUnknownRegion.Wrap(fmt.Errorf("%q", s))
	}
}

// Detect probes root for the install directory of each known release,
// in the order US, EU, JP. The first one found wins.
//
// Any existing entry with the title ID as its name counts as a match.
func Detect(fs afero.Fs, root string) (Region, error) {
	for _, r := range All() {
		found, err := Exists(fs, root, r)
		if err != nil {
			return Unknown, err
		}
		if found {
			return r, nil
		}
	}
	return Unknown, nil
}

// Exists tells if the install directory of a given release is present under root
func Exists(fs afero.Fs, root string, r Region) (bool, error) {
	if !r.Known() {
		return false, nil
	}
	found, err := afero.Exists(fs, r.TitleDir(root))
	if err != nil {
		return false, fmt.Errorf("looking for %s release at %q: %w", r, r.TitleDir(root), err)
	}
	return found, nil
}
