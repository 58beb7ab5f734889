package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-pitch/dsp/core"
)

func ExampleApplyFrameOptions() {
	cfg := core.ApplyFrameOptions(
		core.WithSampleRate(8000),
		core.WithFrameLength(256),
	)

	fmt.Printf("sampleRate=%d frameLength=%d levels=%d\n", cfg.SampleRate, cfg.FrameLength, cfg.Levels)

	// Output:
	// sampleRate=8000 frameLength=256 levels=6
}

func ExampleEnsureLen() {
	buf := make([]int16, 2, 4)
	buf[0], buf[1] = 1, 2
	buf = core.EnsureLen(buf, 4)

	copied := core.CopyInto(buf[2:], []int16{3, 4})
	fmt.Println(copied, buf)

	// Output:
	// 2 [1 2 3 4]
}
