package ranking_test

import (
	"errors"
	"testing"

	"github.com/okian/regata/internal/domain/model"
	"github.com/okian/regata/internal/domain/racetime"
	"github.com/okian/regata/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func res(team, time string, group int, valid bool) model.Result {
	return model.Result{
		TeamSlug: team,
		Time:     time,
		Group:    group,
		IsValid:  valid,
	}
}

func slugs(results []model.Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.TeamSlug
	}
	return out
}

func TestRank(t *testing.T) {
	Convey("Given results spread over two heats with a DNF", t, func() {
		input := []model.Result{
			res("a", "5:00:000", 1, true),
			res("b", "DNF", 1, true),
			res("c", "4:30:000", 2, true),
		}

		Convey("Then group is the primary key and the DNF trails", func() {
			// group 2 ranks before group 1; only within a group does time
			// decide.
			ordered, err := ranking.Rank(input)
			So(err, ShouldBeNil)
			So(slugs(ordered), ShouldResemble, []string{"c", "a", "b"})
		})
	})

	Convey("Given a single heat", t, func() {
		input := []model.Result{
			res("slow", "6:10:500", 0, true),
			res("fast", "5:59:999", 0, true),
			res("mid", "6:00:000", 0, true),
		}

		Convey("Then entries order by time ascending", func() {
			ordered, err := ranking.Rank(input)
			So(err, ShouldBeNil)
			So(slugs(ordered), ShouldResemble, []string{"fast", "mid", "slow"})
		})

		Convey("Then ranking is idempotent", func() {
			once, err := ranking.Rank(input)
			So(err, ShouldBeNil)
			twice, err := ranking.Rank(once)
			So(err, ShouldBeNil)
			So(twice, ShouldResemble, once)
		})
	})

	Convey("Given invalid and non-finishing entries across heats", t, func() {
		input := []model.Result{
			res("dns1", "DNS", 1, true),
			res("ok1", "5:00:000", 2, true),
			res("flagged", "4:00:000", 1, false),
			res("ok2", "4:50:000", 3, true),
			res("dnf2", "DNF", 3, true),
		}

		Convey("Then every ineligible entry trails every eligible one, in input order", func() {
			ordered, err := ranking.Rank(input)
			So(err, ShouldBeNil)
			So(slugs(ordered), ShouldResemble, []string{"ok2", "ok1", "dns1", "flagged", "dnf2"})
		})
	})

	Convey("Given tied times within a group", t, func() {
		input := []model.Result{
			res("first-in", "5:00:000", 1, true),
			res("second-in", "5:00:000", 1, true),
		}

		Convey("Then input order is preserved", func() {
			ordered, err := ranking.Rank(input)
			So(err, ShouldBeNil)
			So(slugs(ordered), ShouldResemble, []string{"first-in", "second-in"})
		})
	})

	Convey("Given an out-of-range group value", t, func() {
		input := []model.Result{
			res("huge-group", "4:00:000", 99, true),
			res("lane-one", "5:00:000", 1, true),
		}

		Convey("Then groups sort by numeric value without validation", func() {
			ordered, err := ranking.Rank(input)
			So(err, ShouldBeNil)
			So(slugs(ordered), ShouldResemble, []string{"huge-group", "lane-one"})
		})
	})

	Convey("Given a malformed time anywhere in the batch", t, func() {
		input := []model.Result{
			res("good", "5:00:000", 1, true),
			res("bad", "nonsense", 1, true),
		}

		Convey("Then the whole batch aborts with ErrMalformedTime", func() {
			_, err := ranking.Rank(input)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, racetime.ErrMalformedTime), ShouldBeTrue)
		})
	})

	Convey("Given no results", t, func() {
		Convey("Then the output is empty", func() {
			ordered, err := ranking.Rank(nil)
			So(err, ShouldBeNil)
			So(ordered, ShouldBeEmpty)
		})
	})
}

func TestRankByTime(t *testing.T) {
	Convey("Given results across heats", t, func() {
		input := []model.Result{
			res("a", "5:00:000", 1, true),
			res("b", "DNF", 1, true),
			res("c", "4:30:000", 2, true),
		}

		Convey("Then only the clock decides; groups are ignored", func() {
			ordered, err := ranking.RankByTime(input)
			So(err, ShouldBeNil)
			So(slugs(ordered), ShouldResemble, []string{"c", "a", "b"})
		})
	})

	Convey("Given a malformed time", t, func() {
		input := []model.Result{res("bad", "4:5", 0, true)}

		Convey("Then it aborts the batch", func() {
			_, err := ranking.RankByTime(input)
			So(errors.Is(err, racetime.ErrMalformedTime), ShouldBeTrue)
		})
	})
}

func TestPositions(t *testing.T) {
	Convey("Given an ordered slice", t, func() {
		ordered := []model.Result{
			res("gold", "4:00:000", 0, true),
			res("silver", "4:10:000", 0, true),
			res("bronze", "4:20:000", 0, true),
		}

		Convey("Then positions are the 1-based indexes", func() {
			ranked := ranking.Positions(ordered)
			So(ranked, ShouldHaveLength, 3)
			So(ranked[0].Position, ShouldEqual, 1)
			So(ranked[0].TeamSlug, ShouldEqual, "gold")
			So(ranked[2].Position, ShouldEqual, 3)
			So(ranked[2].TeamSlug, ShouldEqual, "bronze")
		})
	})
}
