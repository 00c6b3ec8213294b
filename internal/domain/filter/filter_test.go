package filter_test

import (
	"net/url"
	"testing"

	"github.com/podiumhq/podium/internal/domain/filter"
	"github.com/podiumhq/podium/internal/domain/schema"
	"github.com/podiumhq/podium/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func mustTable(cols []string, rows [][]string) *table.Table {
	t, err := table.FromRows(cols, rows)
	So(err, ShouldBeNil)
	return t
}

func athleteFixture() *table.Table {
	return mustTable(
		[]string{schema.ColCode, schema.ColCountryCode, schema.ColCountry, schema.ColContinent, schema.ColGender, schema.ColAge},
		[][]string{
			{"1", "FRA", "France", "Europe", "Female", "24"},
			{"2", "FRA", "France", "Europe", "Male", "31"},
			{"3", "USA", "United States", "North America", "Female", "19"},
			{"4", "JPN", "Japan", "Asia", "Male", "22"},
			{"5", "KEN", "Kenya", "Africa", "Female", ""},
		},
	)
}

func TestEmptySelection(t *testing.T) {
	Convey("Given the zero selection", t, func() {
		sel := filter.Selection{}

		Convey("Then it reports empty", func() {
			So(sel.Empty(), ShouldBeTrue)
		})

		Convey("Then applying it is the identity", func() {
			tbl := athleteFixture()
			So(sel.Apply(tbl), ShouldEqual, tbl)
		})

		Convey("And any active dimension makes it non-empty", func() {
			min := 18
			So(filter.Selection{Countries: []string{"FRA"}}.Empty(), ShouldBeFalse)
			So(filter.Selection{AgeMin: &min}.Empty(), ShouldBeFalse)
		})
	})
}

func TestApplyDimensions(t *testing.T) {
	Convey("Given an athlete table", t, func() {
		tbl := athleteFixture()

		Convey("When filtering by continent", func() {
			got := filter.Selection{Continents: []string{"Europe"}}.Apply(tbl)

			So(got.Len(), ShouldEqual, 2)
			So(got.Cell(0, schema.ColCode), ShouldEqual, "1")
			So(got.Cell(1, schema.ColCode), ShouldEqual, "2")
		})

		Convey("When filtering by country code", func() {
			got := filter.Selection{Countries: []string{"FRA"}}.Apply(tbl)
			So(got.Len(), ShouldEqual, 2)
		})

		Convey("When filtering by full country name", func() {
			got := filter.Selection{Countries: []string{"United States"}}.Apply(tbl)

			Convey("Then the name column matches too", func() {
				So(got.Len(), ShouldEqual, 1)
				So(got.Cell(0, schema.ColCode), ShouldEqual, "3")
			})
		})

		Convey("When filtering by gender with odd casing", func() {
			got := filter.Selection{Genders: []string{"fEMALE"}}.Apply(tbl)

			Convey("Then comparison is case-insensitive", func() {
				So(got.Len(), ShouldEqual, 3)
			})
		})

		Convey("When filtering by an age range", func() {
			min, max := 18, 25
			got := filter.Selection{AgeMin: &min, AgeMax: &max}.Apply(tbl)

			Convey("Then bounds are inclusive", func() {
				So(got.Len(), ShouldEqual, 3)
				So(got.Cell(0, schema.ColAge), ShouldEqual, "24")
			})

			Convey("And rows with a missing age are excluded", func() {
				for i := 0; i < got.Len(); i++ {
					So(got.Cell(i, schema.ColCode), ShouldNotEqual, "5")
				}
			})
		})

		Convey("When only one age bound is set", func() {
			min := 25
			got := filter.Selection{AgeMin: &min}.Apply(tbl)
			So(got.Len(), ShouldEqual, 1)
			So(got.Cell(0, schema.ColCode), ShouldEqual, "2")
		})

		Convey("When combining dimensions", func() {
			got := filter.Selection{
				Continents: []string{"Europe", "Asia"},
				Genders:    []string{"Male"},
			}.Apply(tbl)

			Convey("Then a row must match every active dimension", func() {
				So(got.Len(), ShouldEqual, 2)
				So(got.Cell(0, schema.ColCode), ShouldEqual, "2")
				So(got.Cell(1, schema.ColCode), ShouldEqual, "4")
			})
		})

		Convey("When applying the same selection twice", func() {
			sel := filter.Selection{Continents: []string{"Europe"}}
			once := sel.Apply(tbl)
			twice := sel.Apply(once)

			Convey("Then the second application changes nothing", func() {
				So(twice.Len(), ShouldEqual, once.Len())
			})
		})

		Convey("When a dimension's column is absent", func() {
			bare := mustTable([]string{schema.ColVenue}, [][]string{{"Grand Palais"}})
			got := filter.Selection{Genders: []string{"Female"}, Sports: []string{"Judo"}}.Apply(bare)

			Convey("Then the dimension is skipped instead of failing", func() {
				So(got.Len(), ShouldEqual, 1)
			})
		})
	})
}

func TestApplyMedals(t *testing.T) {
	Convey("Given medal data in both shapes", t, func() {
		Convey("When the table carries per-medal rows", func() {
			tbl := mustTable(
				[]string{schema.ColCountryCode, schema.ColMedalType},
				[][]string{
					{"FRA", "Gold Medal"},
					{"FRA", "Silver Medal"},
					{"USA", "Gold"},
					{"JPN", "Bronze Medal"},
				},
			)

			got := filter.Selection{MedalTypes: []string{"Gold"}}.Apply(tbl)

			Convey("Then values match with or without the Medal suffix", func() {
				So(got.Len(), ShouldEqual, 2)
				So(got.Cell(0, schema.ColCountryCode), ShouldEqual, "FRA")
				So(got.Cell(1, schema.ColCountryCode), ShouldEqual, "USA")
			})
		})

		Convey("When the table carries aggregated medal counts", func() {
			tbl := mustTable(
				[]string{schema.ColCountryCode, schema.ColGold, schema.ColSilver, schema.ColBronze},
				[][]string{
					{"FRA", "16", "26", "22"},
					{"NED", "0", "0", "12"},
					{"XXX", "0", "0", "0"},
				},
			)

			Convey("And gold is selected", func() {
				got := filter.Selection{MedalTypes: []string{"Gold"}}.Apply(tbl)

				Convey("Then rows without a gold medal are dropped", func() {
					So(got.Len(), ShouldEqual, 1)
					So(got.Cell(0, schema.ColCountryCode), ShouldEqual, "FRA")
				})
			})

			Convey("And gold or bronze is selected", func() {
				got := filter.Selection{MedalTypes: []string{"Gold", "Bronze"}}.Apply(tbl)

				Convey("Then rows with any selected medal survive", func() {
					So(got.Len(), ShouldEqual, 2)
				})
			})

			Convey("And only unrecognized medal names are selected", func() {
				got := filter.Selection{MedalTypes: []string{"Platinum"}}.Apply(tbl)
				So(got.Len(), ShouldEqual, 3)
			})
		})
	})
}

func TestFromQuery(t *testing.T) {
	Convey("Given URL query parameters", t, func() {
		Convey("When list values are repeated and comma separated", func() {
			q := url.Values{}
			q.Add("countries", "FRA,USA")
			q.Add("countries", "JPN")
			q.Set("genders", "Female")
			q.Set("sports", " Judo , ")

			sel, err := filter.FromQuery(q)

			So(err, ShouldBeNil)
			So(sel.Countries, ShouldResemble, []string{"FRA", "USA", "JPN"})
			So(sel.Genders, ShouldResemble, []string{"Female"})
			So(sel.Sports, ShouldResemble, []string{"Judo"})
		})

		Convey("When age bounds are given", func() {
			q := url.Values{"age_min": {"18"}, "age_max": {"25"}}
			sel, err := filter.FromQuery(q)

			So(err, ShouldBeNil)
			So(*sel.AgeMin, ShouldEqual, 18)
			So(*sel.AgeMax, ShouldEqual, 25)
		})

		Convey("When an age bound is not a number", func() {
			_, err := filter.FromQuery(url.Values{"age_min": {"young"}})
			So(err, ShouldWrap, filter.ErrInvalidSelection)
		})

		Convey("When the bounds are inverted", func() {
			_, err := filter.FromQuery(url.Values{"age_min": {"30"}, "age_max": {"20"}})
			So(err, ShouldWrap, filter.ErrInvalidSelection)
		})

		Convey("When no parameters are set", func() {
			sel, err := filter.FromQuery(url.Values{})

			So(err, ShouldBeNil)
			So(sel.Empty(), ShouldBeTrue)
		})
	})
}
