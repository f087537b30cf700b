package waste

// DefaultPointsPerLog is the current flat award for every recorded entry,
// independent of quantity or category.
const DefaultPointsPerLog = 10

// AwardRule maps a validated submission to the points it earns. The award
// is stored on the log row, so swapping rules never touches old entries.
type AwardRule interface {
	Points(req *LogWasteRequest) int
}

// FlatAward grants the same number of points for every entry.
type FlatAward struct {
	PerLog int
}

func (a FlatAward) Points(_ *LogWasteRequest) int {
	return a.PerLog
}

// DefaultAward is the rule in production.
var DefaultAward AwardRule = FlatAward{PerLog: DefaultPointsPerLog}
