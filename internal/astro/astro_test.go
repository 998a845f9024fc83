package astro

import (
	"testing"
	"time"

	"github.com/profwarlock/warlock/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignForDate(t *testing.T) {
	tests := []struct {
		month, day int
		expected   Sign
	}{
		// boundaries are inclusive at both ends
		{3, 21, Aries},
		{4, 19, Aries},
		{4, 20, Taurus},
		{5, 20, Taurus},
		{6, 21, Cancer},
		{7, 22, Cancer},
		{7, 23, Leo},
		{8, 23, Virgo},
		{11, 22, Sagittarius},
		// capricorn spans the year boundary
		{12, 22, Capricorn},
		{12, 31, Capricorn},
		{1, 1, Capricorn},
		{1, 19, Capricorn},
		{1, 20, Aquarius},
		{2, 19, Pisces},
		{3, 20, Pisces},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, SignForDate(tt.month, tt.day), "month %d day %d", tt.month, tt.day)
	}
}

func TestSignForLongitude(t *testing.T) {
	assert.Equal(t, Aries, SignForLongitude(0))
	assert.Equal(t, Aries, SignForLongitude(29.9))
	assert.Equal(t, Taurus, SignForLongitude(30))
	assert.Equal(t, Pisces, SignForLongitude(359.9))
	assert.Equal(t, Aries, SignForLongitude(360))
	assert.Equal(t, Pisces, SignForLongitude(-10))
}

func TestParseBirthTime(t *testing.T) {
	t.Run("full date and time", func(t *testing.T) {
		parsed, err := ParseBirthTime("15-06-1985 12:10")
		require.NoError(t, err)
		assert.Equal(t, time.Date(1985, 6, 15, 12, 10, 0, 0, time.UTC), parsed)
	})

	t.Run("date only defaults to midnight", func(t *testing.T) {
		parsed, err := ParseBirthTime("15-06-1985")
		require.NoError(t, err)
		assert.Equal(t, 0, parsed.Hour())
		assert.Equal(t, 0, parsed.Minute())
	})

	t.Run("slash separators accepted", func(t *testing.T) {
		_, err := ParseBirthTime("15/06/1985 12:10")
		require.NoError(t, err)
	})

	t.Run("error message is normalized", func(t *testing.T) {
		_, err := ParseBirthTime("invalid-date")
		require.Error(t, err)
		assert.Equal(t, "Date of Birth must be in DD-MM-YYYY HH:MM format", err.Error())
	})
}

func TestToUTC(t *testing.T) {
	local := time.Date(1985, 6, 15, 12, 10, 0, 0, time.UTC)
	utc := ToUTC(local, 3)
	assert.Equal(t, 9, utc.Hour())
	assert.Equal(t, 10, utc.Minute())
}

func TestPositions(t *testing.T) {
	// 15 June, midday: the sun must be in gemini regardless of year.
	when := time.Date(1985, 6, 15, 9, 10, 0, 0, time.UTC)
	positions := Positions(when, 37.77, -122.42)

	require.Len(t, positions, len(ChartBodies))

	byBody := make(map[Body]Position)
	for _, p := range positions {
		byBody[p.Body] = p
	}

	assert.Equal(t, Gemini, byBody[Sun].Sign)
	for _, p := range positions {
		assert.GreaterOrEqual(t, p.Lon, 0.0)
		assert.Less(t, p.Lon, 360.0)
	}
}

func TestAspectBetween(t *testing.T) {
	tests := []struct {
		name     string
		a, b     float64
		expected string
	}{
		{"conjunction at zero separation", 10, 10, "conjunction"},
		{"conjunction within orb", 10, 17, "conjunction"},
		{"opposition across the wrap", 350, 170, "opposition"},
		{"trine", 0, 120, "trine"},
		{"square", 0, 90, "square"},
		{"sextile", 0, 60, "sextile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aspect := AspectBetween(tt.a, tt.b)
			require.NotNil(t, aspect)
			assert.Equal(t, tt.expected, aspect.Name)
		})
	}

	t.Run("no aspect outside all orbs", func(t *testing.T) {
		assert.Nil(t, AspectBetween(0, 75))
	})
}

func TestAspectGrid(t *testing.T) {
	positions := []Position{
		{Body: Sun, Lon: 0, Sign: Aries},
		{Body: Moon, Lon: 120, Sign: Leo},
		{Body: Mercury, Lon: 90, Sign: Cancer},
	}

	grid := AspectGrid(positions)
	require.Len(t, grid, 4)

	// header row with trailing sum column
	assert.Equal(t, "", grid[0][0])
	assert.Equal(t, "☉", grid[0][1])
	assert.Equal(t, "sum", grid[0][len(grid[0])-1])

	// moon trines sun (0 vs 120)
	assert.Equal(t, "△", grid[2][1])
	// mercury squares sun; 90 vs 120 is an exact semisextile
	assert.Equal(t, "□", grid[3][1])
	assert.Equal(t, "⚻", grid[3][2])
}

func TestStripSumColumn(t *testing.T) {
	grid := [][]string{
		{"", "☉", "☽", "sum"},
		{"☉", "", "", "0"},
		{"☽", "△", "", "1"},
	}
	stripped := StripSumColumn(grid)
	assert.Len(t, stripped[0], 3)
	assert.Equal(t, "☽", stripped[0][2])

	// grid without sum column is returned untouched
	plain := [][]string{{"", "☉"}}
	assert.Equal(t, plain, StripSumColumn(plain))
}

func TestDistributions(t *testing.T) {
	positions := []Position{
		{Body: Sun, Lon: 10, Sign: Aries},      // fire cardinal positive
		{Body: Moon, Lon: 40, Sign: Taurus},    // earth fixed negative
		{Body: Mercury, Lon: 100, Sign: Cancer}, // water cardinal negative
		{Body: Asc, Lon: 0, Sign: Aries},
	}

	elements := ElementDistribution(positions)
	byCat := map[string][]string{}
	for _, d := range elements {
		byCat[d.Category] = d.Bodies
	}
	assert.Equal(t, []string{"sun"}, byCat["fire"])
	assert.Equal(t, []string{"moon"}, byCat["earth"])
	assert.Equal(t, []string{"mercury"}, byCat["water"])
	assert.Empty(t, byCat["air"])

	modalities := ModalityDistribution(positions)
	byCat = map[string][]string{}
	for _, d := range modalities {
		byCat[d.Category] = d.Bodies
	}
	assert.ElementsMatch(t, []string{"sun", "mercury"}, byCat["cardinal"])
	assert.Equal(t, []string{"moon"}, byCat["fixed"])

	polarities := PolarityDistribution(positions)
	byCat = map[string][]string{}
	for _, d := range polarities {
		byCat[d.Category] = d.Bodies
	}
	assert.Equal(t, []string{"sun"}, byCat["positive"])
	assert.ElementsMatch(t, []string{"moon", "mercury"}, byCat["negative"])

	// angles never count toward distributions
	for _, d := range elements {
		assert.NotContains(t, d.Bodies, "asc")
	}
}

func TestHemisphereDistribution(t *testing.T) {
	positions := []Position{
		{Body: Asc, Lon: 0, Sign: Aries},
		{Body: Sun, Lon: 10, Sign: Aries},    // house 1: left, below
		{Body: Moon, Lon: 200, Sign: Libra},  // house 7: right, above
		{Body: Mars, Lon: 350, Sign: Pisces}, // house 12: left, above
	}

	hemispheres := HemisphereDistribution(positions)
	byCat := map[string][]string{}
	for _, d := range hemispheres {
		byCat[d.Category] = d.Bodies
	}

	assert.ElementsMatch(t, []string{"sun", "mars"}, byCat["←"])
	assert.Equal(t, []string{"moon"}, byCat["→"])
	assert.ElementsMatch(t, []string{"moon", "mars"}, byCat["↑"])
	assert.Equal(t, []string{"sun"}, byCat["↓"])
}

func TestServiceCompute(t *testing.T) {
	svc := NewService(3)

	t.Run("full chart for a valid record", func(t *testing.T) {
		record := domain.BirthRecord{
			FirstName:  "Jane",
			LastName:   "Doe",
			BirthDate:  "15-06-1985 12:10",
			BirthPlace: "San Francisco, California, USA",
		}
		chart, err := svc.Compute(record, domain.GeoCoordinate{Lat: 37.77, Lon: -122.42})
		require.NoError(t, err)

		assert.Equal(t, Gemini, chart.SunSign)
		assert.NotEmpty(t, chart.MoonSign)
		assert.NotEmpty(t, chart.AscendantSign)
		assert.Len(t, chart.AspectGrid, len(ChartBodies)+1)
		assert.Equal(t, "sum", chart.AspectGrid[0][len(chart.AspectGrid[0])-1])
		assert.Len(t, chart.Elements, 4)
		assert.Len(t, chart.Modalities, 3)
		assert.Len(t, chart.Polarities, 2)
		assert.Len(t, chart.Hemispheres, 4)
	})

	t.Run("invalid date surfaces the normalized message", func(t *testing.T) {
		record := domain.BirthRecord{FirstName: "Jane", BirthDate: "invalid-date", BirthPlace: "SF"}
		_, err := svc.Compute(record, domain.GeoCoordinate{})
		require.Error(t, err)
		assert.Equal(t, "Date of Birth must be in DD-MM-YYYY HH:MM format", err.Error())
	})

	t.Run("full report names the three signs", func(t *testing.T) {
		record := domain.BirthRecord{FirstName: "Jane", LastName: "Doe", BirthDate: "15-06-1985 12:10", BirthPlace: "SF"}
		chart, err := svc.Compute(record, domain.GeoCoordinate{Lat: 37.77, Lon: -122.42})
		require.NoError(t, err)

		report := chart.FullReport(record)
		assert.Contains(t, report, "Jane Doe")
		assert.Contains(t, report, "Sun: Gemini")
		assert.Contains(t, report, "Ascendant:")
	})
}
