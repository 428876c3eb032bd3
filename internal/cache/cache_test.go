package cache

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidtrack/vidtrack/filesystem"
)

func TestPrune(t *testing.T) {
	Convey("Given recordings of different ages", t, func() {
		filesystem.SetMemMapFs()
		Reset(filesystem.SetOsFs)

		fsys := filesystem.API()
		now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

		So(fsys.MkdirAll("/rec/nested", 0o755), ShouldBeNil)

		write := func(path string, age time.Duration) {
			So(fsys.WriteFile(path, []byte("{}\n"), 0o644), ShouldBeNil)
			So(fsys.Chtimes(path, now.Add(-age), now.Add(-age)), ShouldBeNil)
		}

		write("/rec/old.jsonl", 30*24*time.Hour)
		write("/rec/nested/old.jsonl", 15*24*time.Hour)
		write("/rec/new.jsonl", time.Hour)

		Convey("Files older than the ttl are removed", func() {
			removed, err := Prune("/rec", 14*24*time.Hour, now)
			So(err, ShouldBeNil)
			So(removed, ShouldEqual, 2)

			So(exists(fsys.Exists("/rec/old.jsonl")), ShouldBeFalse)
			So(exists(fsys.Exists("/rec/nested/old.jsonl")), ShouldBeFalse)
			So(exists(fsys.Exists("/rec/new.jsonl")), ShouldBeTrue)
		})

		Convey("A longer ttl keeps everything", func() {
			removed, err := Prune("/rec", 60*24*time.Hour, now)
			So(err, ShouldBeNil)
			So(removed, ShouldEqual, 0)
		})

		Convey("A missing directory is ignored", func() {
			removed, err := Prune("/missing", time.Hour, now)
			So(err, ShouldBeNil)
			So(removed, ShouldEqual, 0)
		})
	})
}

func exists(ok bool, err error) bool {
	So(err, ShouldBeNil)
	return ok
}
