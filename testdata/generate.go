package main

import (
	"log"

	"github.com/vegasq/pandata/format"
	"github.com/vegasq/pandata/formats"
	"github.com/vegasq/pandata/frame"
)

// Writes users.<ext> for every built-in format into the current directory.
func main() {
	users := frame.MustTable(
		frame.MustColumn("id", frame.Int64, int64(1), int64(2), int64(3), int64(4), int64(5)),
		frame.MustColumn("name", frame.String, "alice", "bob", "charlie", "diana", nil),
		frame.MustColumn("age", frame.Int64, int64(30), int64(25), int64(35), nil, int64(42)),
		frame.MustColumn("active", frame.Boolean, true, false, true, true, false),
		frame.MustColumn("score", frame.Float64, 95.5, 82.3, nil, 91.2, 76.8),
	)

	reg := formats.NewRegistry()
	for _, f := range reg.Formats() {
		path := "users." + f.Name()
		if err := f.Write(path, format.NewArgs(), frame.FromTable(users)); err != nil {
			log.Fatal(err)
		}
		log.Printf("Generated %s with %d users", path, users.Height())
	}
}
