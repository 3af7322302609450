package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/albapepper/tennisgraph/internal/graph"
	"github.com/albapepper/tennisgraph/internal/ingest"
	"github.com/albapepper/tennisgraph/internal/scrape"
	"github.com/albapepper/tennisgraph/internal/tennis"
)

// snapshotDate and snapshotDuration are the driver's JSON renderings of
// temporal values.
type snapshotDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

func (d snapshotDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

type snapshotDuration struct {
	Seconds int `json:"seconds"`
}

type matchNode struct {
	Round      string   `json:"round"`
	Labels     []string `json:"labels"`
	Properties struct {
		ID       string            `json:"id"`
		MatchNo  *int              `json:"match_no"`
		Date     *snapshotDate     `json:"date"`
		Duration *snapshotDuration `json:"duration"`
		Court    *string           `json:"court"`
	} `json:"properties"`
}

// matchExport is the top-level shape: a list of rows each holding a list
// of match nodes.
type matchExport []struct {
	Match []matchNode `json:"match"`
}

var setsLabels = []string{string(tennis.BestOf3), string(tennis.BestOf5)}

// Matches merges snapshot matches onto their rounds. Rounds must already
// exist; a match without an id or round is skipped.
func (im *Importer) Matches(ctx context.Context, r io.Reader, t Target) (*ingest.Outcome, error) {
	l, err := t.Labels()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ingest.ErrInvalidRequest, err)
	}
	var export matchExport
	if err := decodeSnapshot(r, &export); err != nil {
		return nil, err
	}

	o := ingest.NewOutcome(SourceMatches)
	var stmts []graph.Statement
	for n, row := range export {
		for i, m := range row.Match {
			ref := fmt.Sprintf("row %d match %d", n+1, i+1)
			if m.Properties.ID == "" || m.Round == "" {
				o.Skip(scrape.Skipf(ref, "missing id or round"))
				continue
			}
			mid, err := t.rewrite(m.Properties.ID)
			if err != nil {
				o.Skip(scrape.Skipf(ref, "%v", err))
				continue
			}
			stmts = append(stmts, matchStatement(t, l, mid, m))
		}
	}
	return im.commit(ctx, o, stmts)
}

func matchStatement(t Target, l tennis.Labels, mid string, m matchNode) graph.Statement {
	p := m.Properties
	b := graph.NewBuilder(fmt.Sprintf(`
MATCH (e:Event {id: $eid})-[:ROUND_OF]-(r:Round:%[1]s:%[2]s:%[3]s {round: $round})
MERGE (m:Match:%[2]s:%[1]s:%[3]s {id: $mid})
MERGE (m)-[:PLAYED]->(r)`, l.Discipline, l.Tour, l.Draw)).
		Param("eid", t.EventID()).
		Param("round", m.Round).
		Param("mid", mid).
		Optional("match_no", p.MatchNo, `SET m.match_no = $match_no`).
		Optional("court", p.Court, `SET m.court = $court`)
	if p.Date != nil {
		b.Param("date", p.Date.String()).Clause(`SET m.date = date($date)`)
	}
	if p.Duration != nil {
		b.Param("duration", tennis.SplitSeconds(p.Duration.Seconds).Map()).
			Clause(`SET m.duration = duration($duration)`)
	}
	for _, label := range m.Labels {
		if slices.Contains(setsLabels, label) {
			b.Clause("SET m:" + label)
		}
	}
	return b.Statement()
}

// jsonInt converts a decoded snapshot number.
func jsonInt(n json.Number) (int, error) {
	v, err := n.Int64()
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
