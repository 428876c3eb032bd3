package filesystem

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestAPI(t *testing.T) {
	Convey("Given the backend switches", t, func() {
		Reset(SetOsFs)

		Convey("The default is the OS", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
		})

		Convey("Tests can run in memory", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")
		})

		Convey("Any afero backend can be used", func() {
			Use(afero.NewReadOnlyFs(afero.NewMemMapFs()))
			So(API().WriteFile("/x", []byte("x"), 0o644), ShouldNotBeNil)
		})
	})

	Convey("Given an in-memory backend", t, func() {
		SetMemMapFs()
		Reset(SetOsFs)

		Convey("GacheFs writes through it", func() {
			var fs GacheFs
			So(fs.MkdirAll("/cache", os.ModePerm), ShouldBeNil)

			f, err := fs.OpenFile("/cache/a.json", os.O_CREATE|os.O_WRONLY, 0o644)
			So(err, ShouldBeNil)
			_, err = f.Write([]byte("{}"))
			So(err, ShouldBeNil)
			So(f.Close(), ShouldBeNil)

			b, err := API().ReadFile("/cache/a.json")
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "{}")
		})
	})
}
