package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
)

func TestParseProjections(t *testing.T) {
	input := `Name,Team,Pos,ADP,GP,G,A,"+/-",GAA,"SV%",Notes
Connor McDavid,EDM,C,1.2,82,50,90,20,,,great
Juuse Saros,NSH,G,,60,,,,2.5,0.915,

Cale Makar,COL,D,4,,20,60,,,,`

	records, errs := ParseProjections(strings.NewReader(input))
	require.Empty(t, errs)
	require.Len(t, records, 3)

	mcd := records[0]
	assert.Equal(t, "Connor McDavid", mcd.Name)
	assert.Equal(t, "EDM", mcd.Team)
	assert.Equal(t, "C", mcd.Position)
	require.NotNil(t, mcd.AverageDraftPosition)
	assert.InDelta(t, 1.2, *mcd.AverageDraftPosition, 1e-9)
	g, ok := mcd.Stats.Get(models.Goals)
	require.True(t, ok)
	assert.InDelta(t, 50, g, 1e-9)
	pm, ok := mcd.Stats.Get(models.PlusMinus)
	require.True(t, ok)
	assert.InDelta(t, 20, pm, 1e-9)
	_, ok = mcd.Stats.Get(models.Hits)
	assert.False(t, ok)

	saros := records[1]
	assert.Nil(t, saros.AverageDraftPosition)
	sv, ok := saros.Stats.Get(models.SavePercentage)
	require.True(t, ok)
	assert.InDelta(t, 0.915, sv, 1e-9)

	assert.Nil(t, records[2].GamesPlayed)
}

func TestParseProjectionsAllOrNothing(t *testing.T) {
	input := `Name,Team,Pos,G,A
Good Player,AAA,C,10,20
Bad Player,BBB,LW,ten,20
Worse Player,CCC,RW,5,x`

	records, errs := ParseProjections(strings.NewReader(input))
	assert.Empty(t, records)
	require.Len(t, errs, 2)

	assert.Equal(t, ParseError{Row: 3, Column: "G", Value: "ten", Message: "not a number"}, errs[0])
	assert.Equal(t, 4, errs[1].Row)
	assert.Equal(t, "A", errs[1].Column)
	assert.Contains(t, errs.Error(), "and 1 more")
}

func TestParseProjectionsRejectsNonDecimal(t *testing.T) {
	for _, raw := range []string{"NaN", "nan", "Inf", "-Inf", "+Infinity", "0x1p3", "1e400", "1_000", "--1"} {
		t.Run(raw, func(t *testing.T) {
			input := "Name,Team,Pos,G\nA,X,C,2\nB,X,C," + raw + "\nC,X,C,6\n"

			records, errs := ParseProjections(strings.NewReader(input))
			assert.Empty(t, records)
			require.Len(t, errs, 1)
			assert.Equal(t, ParseError{Row: 3, Column: "G", Value: raw, Message: "not a number"}, errs[0])
		})
	}
}

func TestParseProjectionsAcceptsDecimalForms(t *testing.T) {
	input := "Name,G,A,SV%,+/-,PIM\nA,1.5e1,.5,0.915,+3,-2\n"

	records, errs := ParseProjections(strings.NewReader(input))
	require.Empty(t, errs)
	require.Len(t, records, 1)

	goals, _ := records[0].Stats.Get(models.Goals)
	assert.InDelta(t, 15, goals, 1e-9)
	plusMinus, _ := records[0].Stats.Get(models.PlusMinus)
	assert.InDelta(t, 3, plusMinus, 1e-9)
}

func TestParseProjectionsRejectsDuplicatePlayers(t *testing.T) {
	input := "Name,Team,Pos,G\nSebastian Aho,CAR,C,30\nSebastian Aho,NYI,D,5\nsebastian aho,car,c,31\n"

	records, errs := ParseProjections(strings.NewReader(input))
	assert.Empty(t, records)
	require.Len(t, errs, 1)
	assert.Equal(t, 4, errs[0].Row)
	assert.Equal(t, "Name", errs[0].Column)
	assert.Contains(t, errs[0].Message, "row 2")
}

func TestParseProjectionsMissingHeader(t *testing.T) {
	records, errs := ParseProjections(strings.NewReader(""))
	assert.Empty(t, records)
	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Row)

	records, errs = ParseProjections(strings.NewReader("Team,Pos\nEDM,C\n"))
	assert.Empty(t, records)
	require.Len(t, errs, 1)
	assert.Equal(t, "Name", errs[0].Column)
}

func TestParseProjectionsMalformedQuote(t *testing.T) {
	records, errs := ParseProjections(strings.NewReader("Name,G\n\"broken,1\n"))
	assert.Empty(t, records)
	assert.NotEmpty(t, errs)
}

func TestLoad(t *testing.T) {
	_, err := Load("upload.csv", strings.NewReader("Name,G\nA,nope\n"))
	require.Error(t, err)
	var perrs ParseErrors
	assert.ErrorAs(t, err, &perrs)
	assert.Contains(t, err.Error(), "upload.csv")
}

func TestSampleDataset(t *testing.T) {
	ds, err := SampleDataset()
	require.NoError(t, err)
	assert.Equal(t, SampleSource, ds.Source)
	assert.Len(t, ds.Records, 50)

	goalies := 0
	for _, r := range ds.Records {
		assert.NotEmpty(t, r.Name)
		if models.ParsePositions(r.Position).Has(models.PosGoalie) {
			goalies++
		}
	}
	assert.Equal(t, 10, goalies)
}
