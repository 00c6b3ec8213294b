// Package seed generates a small sample data directory for local runs.
package seed

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/podiumhq/podium/pkg/logger"
)

// Generator writes sample CSVs shaped like the real dataset exports, so the
// service can be exercised without the full data drop.
type Generator struct {
	dir      string
	athletes int
	rng      *rand.Rand
	log      logger.Logger
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithAthletes sets how many sample athletes to generate.
func WithAthletes(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.athletes = n
		}
	}
}

// WithSeed fixes the random source for reproducible output.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLogger sets the logger used by the generator.
func WithLogger(log logger.Logger) Option {
	return func(g *Generator) {
		if log != nil {
			g.log = log
		}
	}
}

// NewGenerator creates a generator writing into dir.
func NewGenerator(dir string, opts ...Option) *Generator {
	g := &Generator{
		dir:      dir,
		athletes: 200,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		log:      logger.Named("seed"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var sampleCountries = []struct {
	code, name string
}{
	{"USA", "United States"},
	{"FRA", "France"},
	{"CHN", "China"},
	{"JPN", "Japan"},
	{"GBR", "Great Britain"},
	{"AUS", "Australia"},
	{"KEN", "Kenya"},
	{"BRA", "Brazil"},
	{"GER", "Germany"},
	{"RSA", "South Africa"},
}

var sampleSports = []string{
	"Athletics", "Swimming", "Judo", "Fencing", "Cycling Road",
	"Gymnastics", "Rowing", "Table Tennis",
}

var sampleVenues = []string{
	"Stade de France", "Paris La Defense Arena", "Champ de Mars Arena",
	"Grand Palais", "Vaires-sur-Marne",
}

var genders = []string{"Male", "Female"}

// Run writes all sample files. Existing files are overwritten.
func (g *Generator) Run(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Join(g.dir, "results"), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"nocs.csv", g.writeNOCs},
		{"athletes.csv", g.writeAthletes},
		{"medallists.csv", g.writeMedallists},
		{"medals_total.csv", g.writeMedalsTotal},
		{"events.csv", g.writeEvents},
		{"schedules.csv", g.writeSchedules},
		{"venues.csv", g.writeVenues},
		{"results", g.writeResults},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step.fn(); err != nil {
			return fmt.Errorf("seed %s: %w", step.name, err)
		}
		g.log.Info(ctx, "sample data written", logger.String("file", step.name))
	}
	return nil
}

func (g *Generator) writeFile(name string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(g.dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (g *Generator) writeNOCs() error {
	rows := make([][]string, 0, len(sampleCountries))
	for _, c := range sampleCountries {
		rows = append(rows, []string{c.code, c.name})
	}
	return g.writeFile("nocs.csv", []string{"code", "country"}, rows)
}

func (g *Generator) writeAthletes() error {
	header := []string{"code", "name", "country_code", "gender", "birth_date", "disciplines"}
	rows := make([][]string, 0, g.athletes)
	for i := 0; i < g.athletes; i++ {
		c := sampleCountries[g.rng.Intn(len(sampleCountries))]
		birth := time.Date(1980+g.rng.Intn(28), time.Month(1+g.rng.Intn(12)), 1+g.rng.Intn(28), 0, 0, 0, 0, time.UTC)
		rows = append(rows, []string{
			strconv.Itoa(1000000 + i),
			fmt.Sprintf("Athlete %03d", i),
			c.code,
			genders[g.rng.Intn(len(genders))],
			birth.Format("2006-01-02"),
			sampleSports[g.rng.Intn(len(sampleSports))],
		})
	}
	return g.writeFile("athletes.csv", header, rows)
}

func (g *Generator) writeMedallists() error {
	header := []string{"medal_date", "medal_type", "name", "gender", "country_code", "discipline", "event", "code"}
	medals := []string{"Gold Medal", "Silver Medal", "Bronze Medal"}
	var rows [][]string
	for _, sport := range sampleSports {
		for e := 0; e < 3; e++ {
			event := fmt.Sprintf("%s Event %d", sport, e+1)
			date := time.Date(2024, 7, 27+g.rng.Intn(14), 0, 0, 0, 0, time.UTC)
			for m, medal := range medals {
				c := sampleCountries[g.rng.Intn(len(sampleCountries))]
				athlete := g.rng.Intn(g.athletes)
				rows = append(rows, []string{
					date.Format("2006-01-02"),
					medal,
					fmt.Sprintf("Athlete %03d", athlete),
					genders[g.rng.Intn(len(genders))],
					c.code,
					sport,
					event,
					strconv.Itoa(1000000 + athlete + m),
				})
			}
		}
	}
	return g.writeFile("medallists.csv", header, rows)
}

func (g *Generator) writeMedalsTotal() error {
	header := []string{"country_code", "Gold Medal", "Silver Medal", "Bronze Medal"}
	rows := make([][]string, 0, len(sampleCountries))
	for _, c := range sampleCountries {
		rows = append(rows, []string{
			c.code,
			strconv.Itoa(g.rng.Intn(20)),
			strconv.Itoa(g.rng.Intn(20)),
			strconv.Itoa(g.rng.Intn(20)),
		})
	}
	return g.writeFile("medals_total.csv", header, rows)
}

func (g *Generator) writeEvents() error {
	header := []string{"event", "sport", "venue", "date"}
	var rows [][]string
	for _, sport := range sampleSports {
		for e := 0; e < 3; e++ {
			date := time.Date(2024, 7, 27+g.rng.Intn(14), 0, 0, 0, 0, time.UTC)
			rows = append(rows, []string{
				fmt.Sprintf("%s Event %d", sport, e+1),
				sport,
				sampleVenues[g.rng.Intn(len(sampleVenues))],
				date.Format("2006-01-02"),
			})
		}
	}
	return g.writeFile("events.csv", header, rows)
}

func (g *Generator) writeSchedules() error {
	header := []string{"start_date", "discipline", "event", "venue", "status"}
	var rows [][]string
	for _, sport := range sampleSports {
		for e := 0; e < 3; e++ {
			date := time.Date(2024, 7, 27+g.rng.Intn(14), 8+g.rng.Intn(12), 0, 0, 0, time.UTC)
			rows = append(rows, []string{
				date.Format("2006-01-02 15:04"),
				sport,
				fmt.Sprintf("%s Event %d", sport, e+1),
				sampleVenues[g.rng.Intn(len(sampleVenues))],
				"Finished",
			})
		}
	}
	return g.writeFile("schedules.csv", header, rows)
}

func (g *Generator) writeVenues() error {
	header := []string{"venue", "sports", "latitude", "longitude"}
	rows := make([][]string, 0, len(sampleVenues))
	for i, v := range sampleVenues {
		rows = append(rows, []string{
			v,
			sampleSports[i%len(sampleSports)],
			fmt.Sprintf("%.4f", 48.8+g.rng.Float64()*0.2),
			fmt.Sprintf("%.4f", 2.2+g.rng.Float64()*0.3),
		})
	}
	return g.writeFile("venues.csv", header, rows)
}

func (g *Generator) writeResults() error {
	header := []string{"rank", "name", "country_code", "event", "result"}
	for _, sport := range sampleSports[:2] {
		var rows [][]string
		for rank := 1; rank <= 8; rank++ {
			c := sampleCountries[g.rng.Intn(len(sampleCountries))]
			rows = append(rows, []string{
				strconv.Itoa(rank),
				fmt.Sprintf("Athlete %03d", g.rng.Intn(g.athletes)),
				c.code,
				fmt.Sprintf("%s Event 1", sport),
				fmt.Sprintf("%.2f", 40+g.rng.Float64()*20),
			})
		}
		if err := g.writeFile(filepath.Join("results", sport+".csv"), header, rows); err != nil {
			return err
		}
	}
	return nil
}
