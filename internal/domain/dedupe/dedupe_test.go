package dedupe_test

import (
	"testing"
	"time"

	dedupe "github.com/okian/msi/internal/domain/dedupe"
	"github.com/okian/msi/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestKeyOf(t *testing.T) {
	Convey("Given two reports of the same fixture at different minutes", t, func() {
		a := model.Match{ID: 1, Date: time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC), HomeTeam: "A", AwayTeam: "B"}
		b := model.Match{ID: 2, Date: time.Date(2024, 5, 1, 19, 45, 0, 0, time.UTC), HomeTeam: "A", AwayTeam: "B"}

		Convey("Then their keys are equal", func() {
			So(dedupe.KeyOf(a), ShouldResemble, dedupe.KeyOf(b))
		})

		Convey("And the reverse fixture has a different key", func() {
			rev := b
			rev.HomeTeam, rev.AwayTeam = "B", "A"
			So(dedupe.KeyOf(rev), ShouldNotResemble, dedupe.KeyOf(a))
		})
	})
}

func TestIndex(t *testing.T) {
	Convey("Given a new index", t, func() {
		idx := dedupe.NewIndex(dedupe.WithCapacity(4))
		k := dedupe.Key{Day: "2024-05-01", Home: "A", Away: "B"}

		So(idx.Size(), ShouldEqual, 0)
		So(idx.Contains(k), ShouldBeFalse)

		Convey("When a key is recorded", func() {
			first, seen := idx.SeenAndRecord(k, 10)

			Convey("Then it is new and owned by that id", func() {
				So(seen, ShouldBeFalse)
				So(first, ShouldEqual, 10)
				So(idx.Contains(k), ShouldBeTrue)
				So(idx.Size(), ShouldEqual, 1)
			})

			Convey("And recording it again reports the first owner", func() {
				first, seen := idx.SeenAndRecord(k, 11)
				So(seen, ShouldBeTrue)
				So(first, ShouldEqual, 10)
				So(idx.Size(), ShouldEqual, 1)
			})
		})
	})
}
