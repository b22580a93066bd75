package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/okian/leetboard/internal/adapters/repository"
	"github.com/okian/leetboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func intPtr(v int) *int { return &v }

func TestMemoryStore_Participants(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		store := repository.NewMemoryStore()

		Convey("When creating a participant", func() {
			p, err := store.CreateParticipant(ctx, model.Participant{
				Name: "Alice", Department: "cse", Handle: "alice", Score: intPtr(42),
			})

			Convey("Then it gets an id and is retrievable by handle", func() {
				So(err, ShouldBeNil)
				So(p.ID, ShouldBeGreaterThan, 0)

				got, err := store.ParticipantByHandle(ctx, "alice")
				So(err, ShouldBeNil)
				So(got.Name, ShouldEqual, "Alice")
				So(*got.Score, ShouldEqual, 42)
			})

			Convey("And registering the same handle again is rejected", func() {
				_, err := store.CreateParticipant(ctx, model.Participant{
					Name: "Other", Department: "it", Handle: "alice",
				})
				So(errors.Is(err, repository.ErrDuplicateHandle), ShouldBeTrue)

				count, _ := store.Count(ctx)
				So(count, ShouldEqual, 1)
			})
		})

		Convey("When looking up an unknown handle", func() {
			_, err := store.ParticipantByHandle(ctx, "ghost")

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestMemoryStore_UpdateScore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a participant without a score", t, func() {
		store := repository.NewMemoryStore()
		p, err := store.CreateParticipant(ctx, model.Participant{
			Name: "Bob", Department: "ece", Handle: "bob",
		})
		So(err, ShouldBeNil)
		So(p.Score, ShouldBeNil)

		Convey("When updating the score", func() {
			err := store.UpdateScore(ctx, p.ID, 17)

			Convey("Then the overwrite is visible", func() {
				So(err, ShouldBeNil)
				got, _ := store.ParticipantByHandle(ctx, "bob")
				So(*got.Score, ShouldEqual, 17)
			})
		})

		Convey("When updating an unknown participant", func() {
			err := store.UpdateScore(ctx, 9999, 1)

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestMemoryStore_LeaderboardPage(t *testing.T) {
	ctx := context.Background()

	Convey("Given 35 participants with ascending scores", t, func() {
		store := repository.NewMemoryStore()
		for i := 1; i <= 35; i++ {
			dept := "cse"
			if i%2 == 0 {
				dept = "it"
			}
			_, err := store.CreateParticipant(ctx, model.Participant{
				Name:       fmt.Sprintf("user-%02d", i),
				Department: dept,
				Handle:     fmt.Sprintf("handle-%02d", i),
				Score:      intPtr(i),
			})
			So(err, ShouldBeNil)
		}

		Convey("When reading page 2 with page size 30", func() {
			rows, info, err := store.LeaderboardPage(ctx, repository.LeaderboardQuery{Page: 2, PageSize: 30})

			Convey("Then 5 rows and totalPages 2 come back", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 5)
				So(info.Total, ShouldEqual, 35)
				So(info.TotalPages, ShouldEqual, 2)
				So(info.Page, ShouldEqual, 2)
				So(info.Limit, ShouldEqual, 30)
			})
		})

		Convey("When reading the first page descending", func() {
			rows, _, err := store.LeaderboardPage(ctx, repository.LeaderboardQuery{Page: 1, PageSize: 30})

			Convey("Then the highest score leads", func() {
				So(err, ShouldBeNil)
				So(*rows[0].Score, ShouldEqual, 35)
			})
		})

		Convey("When sorting ascending", func() {
			rows, _, err := store.LeaderboardPage(ctx, repository.LeaderboardQuery{Page: 1, PageSize: 30, Ascending: true})

			Convey("Then the lowest score leads", func() {
				So(err, ShouldBeNil)
				So(*rows[0].Score, ShouldEqual, 1)
			})
		})

		Convey("When filtering by department", func() {
			rows, info, err := store.LeaderboardPage(ctx, repository.LeaderboardQuery{Page: 1, PageSize: 30, Department: "it"})

			Convey("Then only that department is returned", func() {
				So(err, ShouldBeNil)
				So(info.Total, ShouldEqual, 17)
				for _, p := range rows {
					So(p.Department, ShouldEqual, "it")
				}
			})
		})

		Convey("When searching by name substring", func() {
			rows, info, err := store.LeaderboardPage(ctx, repository.LeaderboardQuery{Page: 1, PageSize: 30, Search: "USER-03"})

			Convey("Then the match is case-insensitive", func() {
				So(err, ShouldBeNil)
				So(info.Total, ShouldEqual, 2) // user-03 and user-30
				So(rows, ShouldHaveLength, 2)
			})
		})

		Convey("When requesting a page past the end", func() {
			rows, info, err := store.LeaderboardPage(ctx, repository.LeaderboardQuery{Page: 5, PageSize: 30})

			Convey("Then an empty page with the envelope comes back", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldBeEmpty)
				So(info.Total, ShouldEqual, 35)
			})
		})
	})
}

func TestMemoryStore_Snapshots(t *testing.T) {
	ctx := context.Background()
	weekOne := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	weekTwo := weekOne.AddDate(0, 0, 7)

	Convey("Given a store with one participant", t, func() {
		store := repository.NewMemoryStore()
		p, err := store.CreateParticipant(ctx, model.Participant{
			Name: "Alice", Department: "cse", Handle: "alice", Score: intPtr(42),
		})
		So(err, ShouldBeNil)

		Convey("When no snapshot exists before a week", func() {
			_, err := store.LatestSnapshotBefore(ctx, p.ID, weekOne)

			Convey("Then ErrNoSnapshot is returned", func() {
				So(errors.Is(err, repository.ErrNoSnapshot), ShouldBeTrue)
			})
		})

		Convey("When upserting a snapshot twice for the same week", func() {
			So(store.UpsertSnapshot(ctx, model.Snapshot{ParticipantID: p.ID, Week: weekOne, Score: 42, Improvement: 42}), ShouldBeNil)
			So(store.UpsertSnapshot(ctx, model.Snapshot{ParticipantID: p.ID, Week: weekOne, Score: 45, Improvement: 45}), ShouldBeNil)

			Convey("Then only one row exists and it holds the latest values", func() {
				snap, err := store.LatestSnapshotBefore(ctx, p.ID, weekTwo)
				So(err, ShouldBeNil)
				So(snap.Score, ShouldEqual, 45)
				So(snap.Week, ShouldResemble, weekOne)
			})
		})

		Convey("When snapshots exist for several prior weeks", func() {
			So(store.UpsertSnapshot(ctx, model.Snapshot{ParticipantID: p.ID, Week: weekOne, Score: 40, Improvement: 40}), ShouldBeNil)
			So(store.UpsertSnapshot(ctx, model.Snapshot{ParticipantID: p.ID, Week: weekTwo, Score: 48, Improvement: 8}), ShouldBeNil)

			Convey("Then the latest strictly-prior week wins", func() {
				snap, err := store.LatestSnapshotBefore(ctx, p.ID, weekTwo.AddDate(0, 0, 7))
				So(err, ShouldBeNil)
				So(snap.Week, ShouldResemble, weekTwo)
				So(snap.Score, ShouldEqual, 48)
			})

			Convey("And the cutoff is strict", func() {
				snap, err := store.LatestSnapshotBefore(ctx, p.ID, weekTwo)
				So(err, ShouldBeNil)
				So(snap.Week, ShouldResemble, weekOne)
			})
		})
	})
}

func TestMemoryStore_TopImprovements(t *testing.T) {
	ctx := context.Background()
	weekOne := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

	Convey("Given snapshots with mixed improvements", t, func() {
		store := repository.NewMemoryStore()
		scores := map[string]int{"alice": 8, "bob": 0, "carol": -3, "dave": 15}
		for handle, improvement := range scores {
			p, err := store.CreateParticipant(ctx, model.Participant{
				Name: handle, Department: "cse", Handle: handle, Score: intPtr(50),
			})
			So(err, ShouldBeNil)
			So(store.UpsertSnapshot(ctx, model.Snapshot{
				ParticipantID: p.ID, Week: weekOne, Score: 50, Improvement: improvement,
			}), ShouldBeNil)
		}

		Convey("When reading the top improvements", func() {
			out, err := store.TopImprovements(ctx, weekOne, 5)

			Convey("Then only positive deltas appear, ordered descending", func() {
				So(err, ShouldBeNil)
				So(out, ShouldHaveLength, 2)
				So(out[0].Handle, ShouldEqual, "dave")
				So(out[0].Improvement, ShouldEqual, 15)
				So(out[1].Handle, ShouldEqual, "alice")
			})
		})

		Convey("When limiting the read", func() {
			out, err := store.TopImprovements(ctx, weekOne, 1)

			Convey("Then the list is truncated", func() {
				So(err, ShouldBeNil)
				So(out, ShouldHaveLength, 1)
				So(out[0].Handle, ShouldEqual, "dave")
			})
		})
	})
}
