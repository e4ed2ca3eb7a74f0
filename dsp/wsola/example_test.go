package wsola_test

import (
	"fmt"
	"log"

	"github.com/cwbudde/algo-pitch/dsp/wsola"
)

func ExampleNewShifter() {
	s, err := wsola.NewShifter(wsola.WithFrameSize(2048), wsola.WithChannels(2))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(s.HopIn(), s.Latency(), s.BufferSize())
	// Output: 1024 4096 16384
}

func ExampleShifter_ProcessBlock() {
	s, err := wsola.NewShifter(wsola.WithFrameSize(512), wsola.WithChannels(1))
	if err != nil {
		log.Fatal(err)
	}

	in := [][]float64{make([]float64, 128)}
	out := [][]float64{make([]float64, 128)}

	// One block, shifted up a major third.
	s.ProcessBlock(in, out, wsola.SemitonesToRatio(4))

	fmt.Println(len(out[0]))
	// Output: 128
}

func ExampleSemitonesToRatio() {
	fmt.Printf("%.4f\n", wsola.SemitonesToRatio(7))
	// Output: 1.4983
}
