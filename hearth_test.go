package hearth

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/homegraft/hearth/internal/source"
	"github.com/homegraft/hearth/internal/value"
)

// TestEngineEndToEnd exercises the full Builder -> Build -> HandleEvent
// pipeline across C4-C9, reproducing spec §8 scenario 6 (a Script reading
// a dynamic, Source-dependent path) end to end through the public API.
func TestEngineEndToEnd(t *testing.T) {
	Convey("A config wiring a switch Source to a dynamically-looked-up Sink", t, func() {
		src := "" +
			"a\n" +
			"  ^switch\n" +
			"b\n" +
			"  $level\n" +
			"  <- /{/a}/v\n" +
			"foo\n" +
			"  v\n" +
			"    <- 1\n" +
			"bar\n" +
			"  v\n" +
			"    <- 2\n"

		engine, err := NewBuilder().
			WithSourceKind(source.Named("switch", "foo", "bar")).
			Build(src)

		Convey("it builds without error", func() {
			So(err, ShouldBeNil)
			So(engine, ShouldNotBeNil)
		})

		Convey("b is registered as a level sink", func() {
			So(err, ShouldBeNil)
			sinks := engine.FindSinks("level")
			So(len(sinks), ShouldEqual, 1)
			So(sinks[0].String(), ShouldEqual, "/b")
		})

		Convey("pushing \"bar\" onto /a updates /b to 2", func() {
			So(err, ShouldBeNil)
			updates, err := engine.HandleEvent("/a", value.Str("bar"))
			So(err, ShouldBeNil)
			So(updates, ShouldContainKey, "level")
			got, err := engine.Lookup("/b")
			So(err, ShouldBeNil)
			n, err := got.AsInteger()
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)
		})

		Convey("pushing \"foo\" onto /a updates /b to 1", func() {
			So(err, ShouldBeNil)
			_, err := engine.HandleEvent("/a", value.Str("foo"))
			So(err, ShouldBeNil)
			got, err := engine.Lookup("/b")
			So(err, ShouldBeNil)
			n, err := got.AsInteger()
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)
		})

		Convey("SubtreeAt(\"/foo\") scopes AllPaths and Lookup to that branch", func() {
			So(err, ShouldBeNil)
			sub, err := engine.SubtreeAt("/foo")
			So(err, ShouldBeNil)
			So(sub.RootPath().String(), ShouldEqual, "/foo")
			So(len(sub.AllPaths()), ShouldEqual, 2) // /foo, /foo/v
			got, err := sub.Lookup("v")
			So(err, ShouldBeNil)
			n, err := got.AsInteger()
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)
		})
	})
}

func TestBuildSurfacesClassifiedErrors(t *testing.T) {
	Convey("A config with a dedent that matches no enclosing indent level", t, func() {
		_, err := NewBuilder().Build("a\n  <- 1\n b\n")
		Convey("Build fails with a classified tokenize error", func() {
			So(err, ShouldNotBeNil)
			herr, ok := err.(*Error)
			So(ok, ShouldBeTrue)
			So(herr.Kind, ShouldEqual, KindTokenize)
		})
	})

	Convey("A config referencing an undeclared source kind", t, func() {
		_, err := NewBuilder().Build("a\n  ^nope\n")
		Convey("Build fails with a classified parse error", func() {
			So(err, ShouldNotBeNil)
			herr, ok := err.(*Error)
			So(ok, ShouldBeTrue)
			So(herr.Kind, ShouldEqual, KindParse)
		})
	})
}
