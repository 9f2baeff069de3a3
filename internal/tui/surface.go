package tui

import "github.com/ajramos/mailassist-tui/internal/render"

// Region is an independently rendered area of the screen. Each region has its
// own generation counter and its own action bindings.
type Region int

const (
	RegionHeader Region = iota
	RegionSearch
	RegionStatus
	RegionSidebar
	RegionMain
	RegionSummary
	RegionActionItems
	RegionDraftInput
	RegionDraft
)

var regionNames = [...]string{
	RegionHeader:      "header",
	RegionSearch:      "search",
	RegionStatus:      "status",
	RegionSidebar:     "sidebar",
	RegionMain:        "main",
	RegionSummary:     "summary",
	RegionActionItems: "action-items",
	RegionDraftInput:  "draft-input",
	RegionDraft:       "draft",
}

// Regions lists every region in layout order.
func Regions() []Region {
	out := make([]Region, 0, len(regionNames))
	for r := range regionNames {
		out = append(out, Region(r))
	}
	return out
}

func (r Region) String() string {
	if r >= 0 && int(r) < len(regionNames) {
		return regionNames[r]
	}
	return "unknown"
}

// Event is a user interaction reported by the surface. Values holds the
// current value of every input control in the region, keyed by control id.
type Event struct {
	Region Region
	Action render.Action
	Arg    string
	Values map[string]string
}

// Surface displays fragments and reports interactions back through
// Controller.Dispatch. All methods except Post are called on the UI goroutine.
type Surface interface {
	// Render replaces the whole content of a region.
	Render(region Region, frag render.Fragment)
	// Patch updates one control of the current fragment in place, keeping
	// any text the user typed into other controls.
	Patch(region Region, ctl render.Control)
	// Alert shows a blocking notice.
	Alert(msg string)
	// Post schedules fn on the UI goroutine. Safe from any goroutine.
	Post(fn func())
}
