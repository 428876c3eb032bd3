package event

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidtrack/vidtrack/player"
)

func TestParseType(t *testing.T) {
	Convey("Every canonical type parses back to itself", t, func() {
		for _, typ := range Types() {
			parsed, err := ParseType(typ.String())
			So(err, ShouldBeNil)
			So(parsed, ShouldEqual, typ)
		}
	})

	Convey("Unknown types are rejected", t, func() {
		_, err := ParseType("click")
		So(err, ShouldNotBeNil)
	})

	Convey("Wire values use lower case names", t, func() {
		So(string(QualityChanged), ShouldEqual, "qualitychange")
		So(string(BufferStart), ShouldEqual, "bufferstart")
		So(Types(), ShouldHaveLength, 12)
	})
}

func TestCodec(t *testing.T) {
	Convey("Given a seek event with metadata", t, func() {
		data := Data{
			Base: Base{
				Timestamp:   1700000000000,
				CurrentTime: 40,
				Duration:    100,
				Volume:      0.5,
				SessionID:   "s1",
			},
			SeekInfo: &SeekInfo{FromTime: 5, ToTime: 40},
		}
		data.Merge(map[string]any{"userId": "u1", "currentTime": 999, "fromTime": -1})

		raw, err := json.Marshal(VideoEvent{Type: Seek, Data: data})
		So(err, ShouldBeNil)

		var wire map[string]any
		So(json.Unmarshal(raw, &wire), ShouldBeNil)
		payload := wire["data"].(map[string]any)

		Convey("The payload is one flat object", func() {
			So(wire["type"], ShouldEqual, "seek")
			So(payload["sessionId"], ShouldEqual, "s1")
			So(payload["toTime"], ShouldEqual, 40)
			So(payload["userId"], ShouldEqual, "u1")
		})

		Convey("Metadata never replaces a fixed field", func() {
			So(payload["currentTime"], ShouldEqual, 40)
			So(payload["fromTime"], ShouldEqual, 5)
		})

		Convey("Absent extensions are not written", func() {
			So(payload, ShouldNotContainKey, "bufferLength")
			So(payload, ShouldNotContainKey, "errorCode")
			So(payload, ShouldNotContainKey, "previousQuality")
		})

		Convey("Decoding restores the extension and keeps unknown keys", func() {
			var back VideoEvent
			So(json.Unmarshal(raw, &back), ShouldBeNil)
			So(back.Type, ShouldEqual, Seek)
			So(back.Data.Base, ShouldResemble, data.Base)
			So(back.Data.SeekInfo, ShouldResemble, &SeekInfo{FromTime: 5, ToTime: 40})
			So(back.Data.BufferInfo, ShouldBeNil)
			So(back.Data.Extra, ShouldResemble, map[string]any{"userId": "u1"})
		})
	})

	Convey("Given a play event whose metadata shares extension keys", t, func() {
		data := Data{Base: Base{Timestamp: 1700000000000, CurrentTime: 12, SessionID: "s1"}}
		data.Merge(map[string]any{"fromTime": "campaign", "percentComplete": 50.0, "sessionId": "forged"})

		raw, err := json.Marshal(VideoEvent{Type: Play, Data: data})
		So(err, ShouldBeNil)

		var wire map[string]any
		So(json.Unmarshal(raw, &wire), ShouldBeNil)
		payload := wire["data"].(map[string]any)

		Convey("Keys of absent extensions are written as metadata", func() {
			So(payload["fromTime"], ShouldEqual, "campaign")
			So(payload["percentComplete"], ShouldEqual, 50)
			So(payload["sessionId"], ShouldEqual, "s1")
		})

		Convey("Decoding keeps them as metadata", func() {
			var back VideoEvent
			So(json.Unmarshal(raw, &back), ShouldBeNil)
			So(back.Data.SeekInfo, ShouldBeNil)
			So(back.Data.ProgressInfo, ShouldBeNil)
			So(back.Data.Extra, ShouldResemble, map[string]any{"fromTime": "campaign", "percentComplete": 50.0})
		})
	})

	Convey("Given a progress event", t, func() {
		data := Data{ProgressInfo: &ProgressInfo{PercentComplete: 25}}
		data.Merge(map[string]any{"percentComplete": 99.0})

		raw, err := json.Marshal(VideoEvent{Type: Progress, Data: data})
		So(err, ShouldBeNil)

		Convey("Its own extension wins over metadata", func() {
			var back VideoEvent
			So(json.Unmarshal(raw, &back), ShouldBeNil)
			So(back.Data.ProgressInfo, ShouldNotBeNil)
			So(back.Data.PercentComplete, ShouldEqual, 25)
			So(back.Data.Extra, ShouldBeEmpty)
		})
	})

	Convey("Given a quality change from nothing", t, func() {
		data := Data{QualityChange: &QualityChange{
			CurrentQuality: &player.Quality{Width: 1280, Height: 720, Level: "720p"},
		}}

		raw, err := json.Marshal(data)
		So(err, ShouldBeNil)

		Convey("The previous quality is an explicit null", func() {
			So(string(raw), ShouldContainSubstring, `"previousQuality":null`)
			So(string(raw), ShouldContainSubstring, `"height":720`)
		})
	})
}

func TestApplyCustom(t *testing.T) {
	Convey("Given a snapshot", t, func() {
		data := Data{Base: Base{CurrentTime: 10, Duration: 100, Paused: true}}

		Convey("Snapshot keys replace fields of the matching type", func() {
			data.ApplyCustom(map[string]any{"currentTime": 12.5, "paused": false, "videoSrc": "b.mp4"})
			So(data.CurrentTime, ShouldEqual, 12.5)
			So(data.Paused, ShouldBeFalse)
			So(data.VideoSrc, ShouldEqual, "b.mp4")
			So(data.Duration, ShouldEqual, 100)
			So(data.Extra, ShouldBeEmpty)
		})

		Convey("Weakly typed values are converted", func() {
			data.ApplyCustom(map[string]any{"currentTime": "42", "timestamp": 7})
			So(data.CurrentTime, ShouldEqual, 42)
			So(data.Timestamp, ShouldEqual, 7)
		})

		Convey("Values that cannot convert are kept aside", func() {
			value := map[string]any{"seconds": 1}
			data.ApplyCustom(map[string]any{"currentTime": value})
			So(data.CurrentTime, ShouldEqual, 10)
			So(data.Extra["currentTime"], ShouldResemble, value)
		})

		Convey("Other keys go to Extra", func() {
			data.ApplyCustom(map[string]any{"campaign": "spring"})
			So(data.Extra, ShouldResemble, map[string]any{"campaign": "spring"})
		})
	})
}

func TestIsFixed(t *testing.T) {
	Convey("Snapshot keys are fixed", t, func() {
		for _, key := range []string{"timestamp", "sessionId", "currentTime", "videoSrc"} {
			So(IsFixed(key), ShouldBeTrue)
		}
	})

	Convey("Extension keys are only reserved on events carrying them", t, func() {
		for _, key := range []string{"fromTime", "currentQuality", "bufferEnd", "errorType", "percentComplete"} {
			So(IsFixed(key), ShouldBeFalse)
		}
		So(IsFixed("userId"), ShouldBeFalse)
		So(IsFixed("Extra"), ShouldBeFalse)
	})
}
