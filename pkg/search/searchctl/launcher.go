package searchctl

import (
	"fmt"
	"strings"
	"time"

	"github.com/seekerror/stdlib/pkg/lang"
)

// Options hold dynamic search options for a single "go" command.
type Options struct {
	// DepthLimit, if set, limits the search to the given ply depth.
	DepthLimit lang.Optional[int]
	// NumPVs is the UCI MultiPV setting; search.Run clamps it to [1, search.MaxPVs].
	NumPVs int
	// Deadline, if set, is the wall-clock time after which the search must stop.
	Deadline lang.Optional[time.Time]
}

func (o Options) String() string {
	var parts []string
	if v, ok := o.DepthLimit.V(); ok {
		parts = append(parts, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.Deadline.V(); ok {
		parts = append(parts, fmt.Sprintf("deadline=%v", v.Format(time.RFC3339)))
	}
	parts = append(parts, fmt.Sprintf("multipv=%v", o.NumPVs))
	return fmt.Sprintf("[%v]", strings.Join(parts, ", "))
}
