package memory

import (
	"fmt"
	"strings"
	"time"
)

// Tier is one of the five age-based retention classes, ordered youngest
// to oldest. The zero value means "no tier" so search scoping can tell
// an unset filter from Immediate.
type Tier int

const (
	TierImmediate Tier = iota + 1 // younger than a day
	TierRecent                    // younger than a week
	TierDeep                      // younger than a month
	TierAncient                   // younger than a year
	TierEternal                   // everything older
)

const tierCount = 5

// Tiers lists all tiers in age order.
var Tiers = [tierCount]Tier{TierImmediate, TierRecent, TierDeep, TierAncient, TierEternal}

func (t Tier) String() string {
	switch t {
	case TierImmediate:
		return "immediate"
	case TierRecent:
		return "recent"
	case TierDeep:
		return "deep"
	case TierAncient:
		return "ancient"
	case TierEternal:
		return "eternal"
	default:
		return "unknown"
	}
}

// ParseTier resolves a tier name.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(s) {
	case "immediate":
		return TierImmediate, nil
	case "recent":
		return TierRecent, nil
	case "deep":
		return TierDeep, nil
	case "ancient":
		return TierAncient, nil
	case "eternal":
		return TierEternal, nil
	default:
		return 0, fmt.Errorf("unknown tier %q", s)
	}
}

func (t Tier) index() int { return int(t) - 1 }

// tierFor assigns an age to the first tier whose boundary exceeds it,
// or Eternal when none does.
func tierFor(age time.Duration, boundaries [tierCount - 1]time.Duration) Tier {
	for i, max := range boundaries {
		if age <= max {
			return Tiers[i]
		}
	}
	return TierEternal
}
