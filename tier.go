package strata

import "fmt"

// Tier identifies one of the four fixed priority groups. Higher values
// take precedence during resolution.
type Tier uint8

const (
	// TierDefault holds shipped default settings, the lowest priority.
	TierDefault Tier = iota

	// TierPlugin holds settings contributed by plugins.
	TierPlugin

	// TierUser holds user settings files.
	TierUser

	// TierRuntime is the single in-memory source for runtime writes,
	// always highest priority. It never holds file-backed sources.
	TierRuntime

	tierCount = int(TierRuntime) + 1
)

// tierOrder enumerates tiers in ascending priority. Resolution scans in
// this order so later tiers override or merge on top of earlier ones.
var tierOrder = [tierCount]Tier{TierDefault, TierPlugin, TierUser, TierRuntime}

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierDefault:
		return "default"
	case TierPlugin:
		return "plugin"
	case TierUser:
		return "user"
	case TierRuntime:
		return "runtime"
	default:
		return fmt.Sprintf("tier(%d)", uint8(t))
	}
}

// ParseTier converts a tier name to its Tier value.
func ParseTier(name string) (Tier, error) {
	switch name {
	case "default":
		return TierDefault, nil
	case "plugin":
		return TierPlugin, nil
	case "user":
		return TierUser, nil
	case "runtime":
		return TierRuntime, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidTier, name)
	}
}

// valid reports whether t is one of the defined tiers.
func (t Tier) valid() bool {
	return int(t) < tierCount
}
