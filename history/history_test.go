package history

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidtrack/vidtrack/analytics"
	"github.com/vidtrack/vidtrack/filesystem"
	"github.com/vidtrack/vidtrack/player"
)

func init() {
	filesystem.SetMemMapFs()
}

func record(id string, at time.Time) *Record {
	return &Record{
		SessionID: id,
		Player:    player.KindYouTube,
		Script:    "watch.lua",
		Events:    12,
		Summary:   analytics.Summary{TotalPlayTime: 30000, SeekCount: 1, CompletionRate: 50},
		SavedAt:   at,
	}
}

func TestHistory(t *testing.T) {
	Convey("Given an empty history", t, func() {
		So(Clear(), ShouldBeNil)
		now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

		Convey("When a record is saved", func() {
			So(Save(record("a", now)), ShouldBeNil)

			Convey("Then it can be read back", func() {
				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved, ShouldContainKey, "a")
				So(saved["a"].Player, ShouldEqual, player.KindYouTube)
				So(saved["a"].Summary.SeekCount, ShouldEqual, 1)
			})

			Convey("And saving the same session replaces it", func() {
				updated := record("a", now)
				updated.Events = 40
				So(Save(updated), ShouldBeNil)

				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved, ShouldHaveLength, 1)
				So(saved["a"].Events, ShouldEqual, 40)
			})

			Convey("And removing it empties the history", func() {
				So(Remove("a"), ShouldBeNil)
				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved, ShouldBeEmpty)
			})
		})

		Convey("Records are listed newest first", func() {
			So(Save(record("old", now)), ShouldBeNil)
			So(Save(record("new", now.Add(time.Hour))), ShouldBeNil)

			records, err := List()
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 2)
			So(records[0].SessionID, ShouldEqual, "new")
		})

		Convey("A record needs a session id", func() {
			So(Save(record("", now)), ShouldNotBeNil)
		})

		Convey("The digest summarises the replay", func() {
			So(record("a", now).Describe(), ShouldStartWith, "12 events, 30.0s played, 1 seeks")
		})
	})
}
