package tennis

import "fmt"

// Stats holds the properties written onto one side's Score node: set
// scores (s1, t1, ...) and match statistics.
type Stats map[string]int

// Map converts s into a driver parameter.
func (s Stats) Map() map[string]any {
	out := make(map[string]any, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// ServeKeys names the four properties filled from one serve statistic:
// won and total for the server, won and total for the receiver.
type ServeKeys struct {
	Won, Total, RetWon, RetTotal string
}

var (
	FirstServe  = ServeKeys{"serve1_w", "serve1", "ret1_w", "ret1"}
	SecondServe = ServeKeys{"serve2_w", "serve2", "ret2_w", "ret2"}
	BreakPoints = ServeKeys{"bps_saved", "bps_faced", "bps_converted", "bp_opps"}
)

// SplitServeStat records a won/total serve statistic for both sides and
// derives each receiver's return figures from the opposing server's.
func SplitServeStat(keys ServeKeys, p1, p2 Stats, p1Text, p2Text string) error {
	w1, t1, err := ParseRatio(p1Text)
	if err != nil {
		return fmt.Errorf("%s: %w", keys.Total, err)
	}
	w2, t2, err := ParseRatio(p2Text)
	if err != nil {
		return fmt.Errorf("%s: %w", keys.Total, err)
	}
	p1[keys.Won], p1[keys.Total] = w1, t1
	p2[keys.Won], p2[keys.Total] = w2, t2
	p2[keys.RetWon], p2[keys.RetTotal] = t1-w1, t1
	p1[keys.RetWon], p1[keys.RetTotal] = t2-w2, t2
	return nil
}

// SplitPairStat records a won/total statistic without a receiver side, such
// as net points.
func SplitPairStat(won, total string, p1, p2 Stats, p1Text, p2Text string) error {
	w1, t1, err := ParseRatio(p1Text)
	if err != nil {
		return fmt.Errorf("%s: %w", total, err)
	}
	w2, t2, err := ParseRatio(p2Text)
	if err != nil {
		return fmt.Errorf("%s: %w", total, err)
	}
	p1[won], p1[total] = w1, t1
	p2[won], p2[total] = w2, t2
	return nil
}

// SplitCountStat records a plain count for both sides.
func SplitCountStat(key string, p1, p2 Stats, p1Text, p2Text string) error {
	a, err := Atoi(p1Text)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	b, err := Atoi(p2Text)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	p1[key], p2[key] = a, b
	return nil
}
