package schedule

import (
	"strings"

	"github.com/cockroachdb/errors"
)

var ErrInvalidCompetitorCount = errors.New("invalid competitor count")

// byeSlot pads an odd roster; pairings against it produce no fixture.
const byeSlot = ""

// Pairing is one home/away match inside a round.
type Pairing struct {
	HomeID string
	AwayID string
}

// Round is a perfect pairing of the roster. Number is 1-based.
type Round struct {
	Number   int
	Pairings []Pairing
}

// GenerateRounds builds a single round-robin with the circle method.
//
// The last slot stays fixed while the others rotate one step per round.
// Rosters with fewer than two competitors yield no rounds.
func GenerateRounds(ids []string) ([]Round, error) {
	if err := validateIDs(ids); err != nil {
		return nil, err
	}
	if len(ids) < 2 {
		return []Round{}, nil
	}

	slots := append([]string(nil), ids...)
	if len(slots)%2 != 0 {
		slots = append(slots, byeSlot)
	}

	n := len(slots)
	rotating := n - 1
	fixed := slots[n-1]
	rounds := make([]Round, 0, rotating)
	for r := 0; r < rotating; r++ {
		pairings := make([]Pairing, 0, n/2)
		for m := 0; m < n/2; m++ {
			home := slots[(r+m)%rotating]
			away := slots[(rotating-m+r)%rotating]
			if m == 0 {
				// The fixed slot alternates venue so it both hosts and travels.
				away = fixed
				if r%2 == 1 {
					home, away = away, home
				}
			}
			if home == byeSlot || away == byeSlot {
				continue
			}
			pairings = append(pairings, Pairing{HomeID: home, AwayID: away})
		}
		rounds = append(rounds, Round{Number: r + 1, Pairings: pairings})
	}

	return rounds, nil
}

// DoubleRoundRobin appends a mirrored second half with venues swapped, so
// every pair meets once at each ground. Round numbers continue contiguously.
func DoubleRoundRobin(ids []string) ([]Round, error) {
	firstHalf, err := GenerateRounds(ids)
	if err != nil {
		return nil, err
	}

	out := make([]Round, 0, len(firstHalf)*2)
	out = append(out, firstHalf...)
	for _, round := range firstHalf {
		out = append(out, Mirror(round, len(firstHalf)+round.Number))
	}
	return out, nil
}

// Mirror returns a copy of round with every pairing's venue swapped.
func Mirror(round Round, number int) Round {
	pairings := make([]Pairing, 0, len(round.Pairings))
	for _, p := range round.Pairings {
		pairings = append(pairings, Pairing{HomeID: p.AwayID, AwayID: p.HomeID})
	}
	return Round{Number: number, Pairings: pairings}
}

func validateIDs(ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return errors.Wrap(ErrInvalidCompetitorCount, "empty competitor id")
		}
		if _, ok := seen[id]; ok {
			return errors.Wrapf(ErrInvalidCompetitorCount, "competitor %s listed twice", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
