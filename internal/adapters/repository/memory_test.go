package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/regata/internal/adapters/repository"
	"github.com/okian/regata/internal/domain/model"
)

func comp(name, slug string, date time.Time) model.Competition {
	return model.Competition{
		Name:     name,
		Slug:     slug,
		Location: "Barcelona",
		Date:     date,
		BoatType: model.BoatLlagutCat,
		Lanes:    4,
		IsActive: true,
	}
}

func june(year int) time.Time {
	return time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC)
}

func TestCompetitionLifecycle(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		comps := repository.NewMemoryStore().Competitions()

		Convey("When a competition is created", func() {
			created, err := comps.Create(ctx, comp("Regata de Mataró", "regata-mataro", june(2025)))
			So(err, ShouldBeNil)

			Convey("Then it gets an id and is findable by slug and id", func() {
				So(created.ID, ShouldNotBeEmpty)

				bySlug, err := comps.FindBySlug(ctx, "regata-mataro")
				So(err, ShouldBeNil)
				So(bySlug, ShouldResemble, created)

				byID, err := comps.FindByID(ctx, created.ID)
				So(err, ShouldBeNil)
				So(byID, ShouldResemble, created)
			})

			Convey("Then a second competition cannot reuse the slug", func() {
				_, err := comps.Create(ctx, comp("Another", "regata-mataro", june(2025)))
				So(errors.Is(err, repository.ErrDuplicateSlug), ShouldBeTrue)
			})
		})

		Convey("When a competition has no lanes", func() {
			bad := comp("Broken", "broken", june(2025))
			bad.Lanes = 0

			Convey("Then the create is rejected", func() {
				_, err := comps.Create(ctx, bad)
				So(errors.Is(err, repository.ErrInvalidLanes), ShouldBeTrue)
			})
		})

		Convey("When looking up something that was never stored", func() {
			_, slugErr := comps.FindBySlug(ctx, "ghost")
			_, idErr := comps.FindByID(ctx, "ghost")

			Convey("Then both lookups miss", func() {
				So(errors.Is(slugErr, repository.ErrCompetitionNotFound), ShouldBeTrue)
				So(errors.Is(idErr, repository.ErrCompetitionNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestCompetitionFilter(t *testing.T) {
	Convey("Given a store with a mixed season", t, func() {
		ctx := context.Background()
		league := comp("Lliga Catalana J1", "lliga-j1", june(2025))
		league.IsLeague = true
		champ := comp("Campionat de Catalunya", "campionat", time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC))
		champ.IsChampionship = true
		champ.BoatType = model.BoatBatel
		old := comp("Regata Vella", "regata-vella", june(2019))

		comps := repository.NewMemoryStore(
			repository.WithCompetitions(league, champ, old),
		).Competitions()

		Convey("Then name matching is a case-insensitive substring", func() {
			found, err := comps.Find(ctx, repository.CompetitionFilter{Name: "lliga"})
			So(err, ShouldBeNil)
			So(found, ShouldHaveLength, 1)
			So(found[0].Slug, ShouldEqual, "lliga-j1")
		})

		Convey("Then boat type narrows exactly", func() {
			found, err := comps.Find(ctx, repository.CompetitionFilter{BoatType: model.BoatBatel})
			So(err, ShouldBeNil)
			So(found, ShouldHaveLength, 1)
			So(found[0].Slug, ShouldEqual, "campionat")
		})

		Convey("Then the date range is inclusive of whatever is inside it", func() {
			found, err := comps.Find(ctx, repository.CompetitionFilter{
				DateFrom: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
				DateTo:   time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
			})
			So(err, ShouldBeNil)
			So(found, ShouldHaveLength, 2)
		})

		Convey("Then the league flag is tri-state", func() {
			no := false
			found, err := comps.Find(ctx, repository.CompetitionFilter{IsLeague: &no})
			So(err, ShouldBeNil)
			So(found, ShouldHaveLength, 2)

			all, err := comps.Find(ctx, repository.CompetitionFilter{})
			So(err, ShouldBeNil)
			So(all, ShouldHaveLength, 3)
		})

		Convey("Then years come back distinct and ascending", func() {
			years, err := comps.Years(ctx)
			So(err, ShouldBeNil)
			So(years, ShouldResemble, []int{2019, 2025})
		})
	})
}

func TestResultIngest(t *testing.T) {
	Convey("Given a store with one competition", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		created, err := store.Competitions().Create(ctx, comp("Regata", "regata", june(2025)))
		So(err, ShouldBeNil)
		results := store.Results()

		entries := []repository.ResultEntry{
			{TeamSlug: "mataro", Time: "5:00:000", IsValid: true},
			{TeamSlug: "badalona", Time: "DNS", IsValid: true},
			{TeamSlug: "arenys", Time: "5:10:000", IsValid: false},
		}

		Convey("When entries are inserted under a category", func() {
			stored, err := results.Insert(ctx, created.ID, "senior-m", entries)
			So(err, ShouldBeNil)

			Convey("Then each stored result carries an id and the category", func() {
				So(stored, ShouldHaveLength, 3)
				for _, r := range stored {
					So(r.ID, ShouldNotBeEmpty)
					So(r.CompetitionID, ShouldEqual, created.ID)
					So(r.Category, ShouldEqual, "senior-m")
				}
			})

			Convey("Then they come back by competition and by category", func() {
				all, err := results.FindByCompetition(ctx, created.ID)
				So(err, ShouldBeNil)
				So(all, ShouldHaveLength, 3)

				byCat, err := results.FindByCompetitionAndCategory(ctx, created.ID, "senior-m")
				So(err, ShouldBeNil)
				So(byCat, ShouldHaveLength, 3)

				none, err := results.FindByCompetitionAndCategory(ctx, created.ID, "cadet")
				So(err, ShouldBeNil)
				So(none, ShouldBeEmpty)
			})

			Convey("Then the league query keeps only the valid ones", func() {
				valid, err := results.FindValidForCompetitions(ctx, []string{created.ID})
				So(err, ShouldBeNil)
				So(valid, ShouldHaveLength, 2)
				So(valid[0].TeamSlug, ShouldEqual, "mataro")
				So(valid[1].TeamSlug, ShouldEqual, "badalona")
			})
		})

		Convey("When an entry carries a negative group", func() {
			bad := []repository.ResultEntry{{TeamSlug: "mataro", Time: "5:00:000", Group: -1, IsValid: true}}

			Convey("Then nothing is stored", func() {
				_, err := results.Insert(ctx, created.ID, "senior-m", bad)
				So(errors.Is(err, repository.ErrInvalidGroup), ShouldBeTrue)

				all, err := results.FindByCompetition(ctx, created.ID)
				So(err, ShouldBeNil)
				So(all, ShouldBeEmpty)
			})
		})

		Convey("When the competition does not exist", func() {
			_, err := results.Insert(ctx, "ghost", "senior-m", entries)

			Convey("Then the insert misses", func() {
				So(errors.Is(err, repository.ErrCompetitionNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestTeamLifecycle(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		teams := repository.NewMemoryStore().Teams()

		Convey("When teams are created", func() {
			mataro, err := teams.Create(ctx, model.Team{Name: "CR Mataró", Slug: "mataro"})
			So(err, ShouldBeNil)
			badalona, err := teams.Create(ctx, model.Team{Name: "CR Badalona", Slug: "badalona"})
			So(err, ShouldBeNil)

			Convey("Then they list in creation order", func() {
				all, err := teams.FindAll(ctx)
				So(err, ShouldBeNil)
				So(all, ShouldResemble, []model.Team{mataro, badalona})
			})

			Convey("Then a slug cannot be reused", func() {
				_, err := teams.Create(ctx, model.Team{Name: "Imposter", Slug: "mataro"})
				So(errors.Is(err, repository.ErrDuplicateSlug), ShouldBeTrue)
			})

			Convey("When a team is renamed with a new slug", func() {
				renamed := mataro
				renamed.Name = "Club de Rem Mataró"
				renamed.Slug = "club-rem-mataro"
				updated, err := teams.Update(ctx, renamed)
				So(err, ShouldBeNil)
				So(updated.Slug, ShouldEqual, "club-rem-mataro")

				Convey("Then the old slug is released and the new one resolves", func() {
					_, err := teams.FindBySlug(ctx, "mataro")
					So(errors.Is(err, repository.ErrTeamNotFound), ShouldBeTrue)

					found, err := teams.FindBySlug(ctx, "club-rem-mataro")
					So(err, ShouldBeNil)
					So(found.Name, ShouldEqual, "Club de Rem Mataró")
				})
			})

			Convey("When the first team is deleted", func() {
				So(teams.Delete(ctx, mataro.ID), ShouldBeNil)

				Convey("Then the survivors stay addressable", func() {
					all, err := teams.FindAll(ctx)
					So(err, ShouldBeNil)
					So(all, ShouldResemble, []model.Team{badalona})

					found, err := teams.FindBySlug(ctx, "badalona")
					So(err, ShouldBeNil)
					So(found, ShouldResemble, badalona)
				})
			})

			Convey("When deleting an unknown id", func() {
				err := teams.Delete(ctx, "ghost")

				Convey("Then the delete misses", func() {
					So(errors.Is(err, repository.ErrTeamNotFound), ShouldBeTrue)
				})
			})
		})
	})
}

func TestSeededStore(t *testing.T) {
	Convey("Given a store seeded through options", t, func() {
		ctx := context.Background()
		c := comp("Seeded", "seeded", june(2025))
		c.ID = "comp-1"
		store := repository.NewMemoryStore(
			repository.WithCompetitions(c),
			repository.WithResults(model.Result{CompetitionID: "comp-1", Category: "senior-m", TeamSlug: "mataro", Time: "5:00:000", IsValid: true}),
			repository.WithTeams(model.Team{Name: "CR Mataró", Slug: "mataro"}),
		)

		Convey("Then the seeds are visible through every view", func() {
			found, err := store.Competitions().FindBySlug(ctx, "seeded")
			So(err, ShouldBeNil)
			So(found.ID, ShouldEqual, "comp-1")

			results, err := store.Results().FindByCompetition(ctx, "comp-1")
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 1)
			So(results[0].ID, ShouldNotBeEmpty)

			team, err := store.Teams().FindBySlug(ctx, "mataro")
			So(err, ShouldBeNil)
			So(team.Name, ShouldEqual, "CR Mataró")
		})
	})
}
