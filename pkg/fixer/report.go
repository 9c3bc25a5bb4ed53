package fixer

import (
	"fmt"
	"time"

	"github.com/docker/go-units"
	"github.com/oneconcern/desfixer/pkg/decrypt"
	"github.com/oneconcern/desfixer/pkg/mirror"
	"github.com/oneconcern/desfixer/pkg/region"
)

// Report sums up a conversion
type Report struct {
	Region    region.Region `json:"region"`
	TitleDir  string        `json:"titleDir"`
	OutputDir string        `json:"outputDir"`
	Copied    mirror.Stats  `json:"copied"`
	Decrypted decrypt.Stats `json:"decrypted"`
	Elapsed   time.Duration `json:"elapsed"`
	DryRun    bool          `json:"dryRun,omitempty"`
}

// Seconds spent, truncated
func (r Report) Seconds() int64 {
	return int64(r.Elapsed / time.Second)
}

func (r Report) String() string {
	verb := "decrypted"
	if r.DryRun {
		verb = "to decrypt"
	}
	return fmt.Sprintf("%s release (%s): %d files copied (%s) in %d directories, %d skipped; %d files %s, %d skipped; took %s",
		r.Region, r.Region.TitleID(),
		r.Copied.Files, units.HumanSize(float64(r.Copied.Bytes)), r.Copied.Dirs, r.Copied.Skipped,
		r.Decrypted.Files, verb, r.Decrypted.Skipped,
		units.HumanDuration(r.Elapsed),
	)
}
