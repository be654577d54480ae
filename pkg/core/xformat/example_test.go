package xformat_test

import (
	"fmt"
	"time"

	"github.com/omeyang/logkit/pkg/core/xformat"
	"github.com/omeyang/logkit/pkg/core/xlevel"
)

// ExampleNewText 演示布局模板渲染
func ExampleNewText() {
	f, err := xformat.NewText("plain",
		xformat.WithLayout("%t [%l] %n: %m"),
		xformat.WithTimeFormat("2006-01-02 15:04:05"),
		xformat.WithUTC(true),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	line := f.Render(xformat.Record{
		Logger:  "billing",
		Level:   xlevel.Error,
		Time:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Message: "charge declined",
	})
	fmt.Println(line)
	// Output: 2024-05-01 12:00:00 [Error] billing: charge declined
}

// ExampleNewJSON 演示单行 JSON 渲染
func ExampleNewJSON() {
	f := xformat.NewJSON("json", xformat.WithJSONUTC(true))

	line := f.Render(xformat.Record{
		Logger:  "app",
		Level:   xlevel.Info,
		Time:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Message: "service started",
	})
	fmt.Println(line)
	// Output: {"ts":"2024-05-01T12:00:00Z","level":"Info","logger":"app","msg":"service started"}
}
