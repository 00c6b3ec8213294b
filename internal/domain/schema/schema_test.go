package schema_test

import (
	"testing"

	"github.com/podiumhq/podium/internal/domain/schema"
	"github.com/podiumhq/podium/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given tables with exporter-specific headers", t, func() {
		Convey("When headers vary in case and spacing", func() {
			tbl, err := table.FromRows(
				[]string{"Country Code", "Medal Type", "Birth-Date"},
				[][]string{{"FRA", "Gold Medal", "1998-04-02"}},
			)
			So(err, ShouldBeNil)

			got := schema.Normalize(tbl)

			Convey("Then headers become lowercase snake_case", func() {
				So(got.Columns(), ShouldResemble, []string{"country_code", "medal_type", "birth_date"})
				So(got.Cell(0, "country_code"), ShouldEqual, "FRA")
			})
		})

		Convey("When headers use known synonyms", func() {
			tbl, err := table.FromRows(
				[]string{"NOC", "Sex", "Medal", "Gold Medal"},
				[][]string{{"FRA", "female", "Gold", "16"}},
			)
			So(err, ShouldBeNil)

			got := schema.Normalize(tbl)

			Convey("Then synonyms fold onto canonical names", func() {
				So(got.Has(schema.ColCountryCode), ShouldBeTrue)
				So(got.Has(schema.ColGender), ShouldBeTrue)
				So(got.Has(schema.ColMedalType), ShouldBeTrue)
				So(got.Has(schema.ColGold), ShouldBeTrue)
			})
		})

		Convey("When headers are already canonical", func() {
			tbl, err := table.FromRows(
				[]string{schema.ColCountryCode, schema.ColSport},
				[][]string{{"FRA", "Judo"}},
			)
			So(err, ShouldBeNil)

			got := schema.Normalize(tbl)

			Convey("Then the table is returned as is", func() {
				So(got, ShouldEqual, tbl)
			})
		})
	})
}

func TestRequire(t *testing.T) {
	Convey("Given a normalized table", t, func() {
		tbl, err := table.FromRows(
			[]string{schema.ColCountryCode, schema.ColGold},
			[][]string{{"FRA", "16"}},
		)
		So(err, ShouldBeNil)

		Convey("When all required columns exist", func() {
			So(schema.Require(tbl, schema.ColCountryCode, schema.ColGold), ShouldBeNil)
		})

		Convey("When columns are missing", func() {
			err := schema.Require(tbl, schema.ColGold, schema.ColSilver, schema.ColBronze)

			Convey("Then the error names every missing column", func() {
				So(err, ShouldWrap, schema.ErrSchemaMismatch)
				So(err.Error(), ShouldContainSubstring, "silver")
				So(err.Error(), ShouldContainSubstring, "bronze")
			})
		})
	})
}

func TestColumnResolution(t *testing.T) {
	Convey("Given tables with different dimension columns", t, func() {
		Convey("When both country_code and country are present", func() {
			tbl, err := table.FromRows(
				[]string{schema.ColCountry, schema.ColCountryCode},
				[][]string{{"France", "FRA"}},
			)
			So(err, ShouldBeNil)

			Convey("Then country_code is preferred", func() {
				So(schema.CountryColumn(tbl), ShouldEqual, schema.ColCountryCode)
			})
		})

		Convey("When only a bare code column exists", func() {
			tbl, err := table.FromRows([]string{schema.ColCode}, [][]string{{"FRA"}})
			So(err, ShouldBeNil)
			So(schema.CountryColumn(tbl), ShouldEqual, schema.ColCode)
		})

		Convey("When the sport dimension lives under discipline", func() {
			tbl, err := table.FromRows([]string{schema.ColDiscipline}, [][]string{{"Judo"}})
			So(err, ShouldBeNil)
			So(schema.SportColumn(tbl), ShouldEqual, schema.ColDiscipline)
		})

		Convey("When no candidate column exists", func() {
			tbl, err := table.FromRows([]string{schema.ColVenue}, [][]string{{"Grand Palais"}})
			So(err, ShouldBeNil)
			So(schema.CountryColumn(tbl), ShouldEqual, "")
			So(schema.SportColumn(tbl), ShouldEqual, "")
			So(schema.MedalColumn(tbl), ShouldEqual, "")
			So(schema.GenderColumn(tbl), ShouldEqual, "")
		})
	})
}
