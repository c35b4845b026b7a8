package fuzz

import (
	"bytes"
	"math"
	"testing"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/ingest"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/valuation"
)

// FuzzParseProjections checks that a file is accepted whole or not at all and
// that whatever is accepted can be ranked
func FuzzParseProjections(f *testing.F) {
	f.Add([]byte("Name,Team,Pos,ADP,GP,G,A\nAlpha,AAA,C,1,82,40,40\nBravo,BBB,LW,,82,30,30\n"))
	f.Add([]byte("Name,G\nAlpha,ten\n"))
	f.Add([]byte("\ufeffName,SV%,GAA\nGoalie,0.915,2.1\n"))
	f.Add([]byte("Team,Pos\nAAA,C\n"))
	f.Add([]byte("Name,G\n\"broken,1\n"))
	f.Add([]byte("Name,Team,Pos,G\nA,X,C,2\nB,X,C,NaN\nC,X,C,6\n"))
	f.Add([]byte("Name,GP,ADP\nA,+Infinity,0x1p3\n"))
	f.Add([]byte("Name,Team,Pos\nA,X,C\na,x,c\n"))

	f.Fuzz(func(t *testing.T, data []byte) {
		records, errs := ingest.ParseProjections(bytes.NewReader(data))
		if len(errs) > 0 && len(records) > 0 {
			t.Fatalf("got %d records alongside %d errors", len(records), len(errs))
		}

		keys := make(map[string]bool, len(records))
		for _, r := range records {
			if keys[r.Key()] {
				t.Fatalf("duplicate key %q accepted", r.Key())
			}
			keys[r.Key()] = true
			for c, v := range r.Stats {
				if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
					t.Fatalf("%s accepted non-finite %v", c, *v)
				}
			}
		}

		settings := models.DefaultLeagueSettings()
		result := valuation.Evaluate(records, settings)
		if len(result.Players) != len(records) {
			t.Fatalf("ranked %d of %d records", len(result.Players), len(records))
		}
		for i, p := range result.Players {
			if math.IsNaN(p.FantasyValue) {
				t.Fatalf("NaN fantasy value for %q", p.Key)
			}
			if p.Rank != i+1 {
				t.Fatalf("rank %d at index %d", p.Rank, i)
			}
		}
	})
}
