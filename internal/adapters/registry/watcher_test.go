package registry_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/podiumhq/podium/internal/adapters/registry"
	. "github.com/smartystreets/goconvey/convey"
)

func waitForEviction(r *registry.Registry, name string) bool {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		evicted := true
		for _, cached := range r.Cached() {
			if cached == name {
				evicted = false
				break
			}
		}
		if evicted {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return false
}

func TestWatch(t *testing.T) {
	Convey("Given a watching registry with a cached dataset", t, func() {
		dir := t.TempDir()
		path := writeCSV(t, dir, "nocs.csv", "code,country\nFRA,France\n")

		r, err := registry.New(dir, registry.WithWatchDebounce(10*time.Millisecond))
		So(err, ShouldBeNil)
		So(r.Watch(context.Background()), ShouldBeNil)
		defer r.Close()

		_, err = r.Load(context.Background(), "nocs")
		So(err, ShouldBeNil)
		So(r.Cached(), ShouldContain, "nocs")

		Convey("When the backing file is rewritten", func() {
			So(os.WriteFile(path, []byte("code,country\nFRA,France\nUSA,United States\n"), 0o644), ShouldBeNil)

			Convey("Then the cached dataset is invalidated", func() {
				So(waitForEviction(r, "nocs"), ShouldBeTrue)
			})
		})

		Convey("When an unrelated file changes", func() {
			writeCSV(t, dir, "notes.txt", "scratch")
			time.Sleep(100 * time.Millisecond)

			Convey("Then the cache is untouched", func() {
				So(r.Cached(), ShouldContain, "nocs")
			})
		})

		Convey("When a result sheet appears under results/", func() {
			writeCSV(t, dir, filepath.Join("results", "Judo.csv"), "name,event\nx,y\n")

			Convey("Then loading it works once the file exists", func() {
				tbl, err := r.Load(context.Background(), "results/Judo")
				So(err, ShouldBeNil)
				So(tbl.Len(), ShouldEqual, 1)
			})
		})

		Convey("When the registry is closed twice", func() {
			r.Close()
			r.Close()
		})
	})
}
