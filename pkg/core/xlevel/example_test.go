package xlevel_test

import (
	"fmt"

	"github.com/omeyang/logkit/pkg/core/xlevel"
)

// ExampleParse 演示解析规范级别名称
func ExampleParse() {
	lvl, err := xlevel.Parse("Warning")
	fmt.Println(lvl, err)

	// 名称区分大小写，小写形式不被接受
	_, err = xlevel.Parse("warning")
	fmt.Println(err != nil)
	// Output:
	// Warning <nil>
	// true
}

// ExampleLevel_Enables 演示阈值判断
func ExampleLevel_Enables() {
	threshold := xlevel.Warning

	fmt.Println(threshold.Enables(xlevel.Info))
	fmt.Println(threshold.Enables(xlevel.Warning))
	fmt.Println(threshold.Enables(xlevel.Fatal))
	// Output:
	// false
	// true
	// true
}
