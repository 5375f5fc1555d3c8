// perft is a movegen debugging tool. See: https://www.chessprogramming.org/Perft_Results.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/nullmove/corvid/pkg/board/fen"
	"github.com/nullmove/corvid/pkg/search"
	"github.com/seekerror/logw"
)

var (
	depth    = flag.Int("depth", 4, "Search depth")
	position = flag.String("fen", "", "Start position (default to standard)")
	divide   = flag.Bool("divide", false, "Divide counts by initial move, at the final depth")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	if *position == "" {
		*position = fen.Initial
	}

	pos, _, _, _, err := fen.Decode(*position)
	if err != nil {
		logw.Exitf(ctx, "Invalid fen '%v': %v", *position, err)
	}

	for i := 1; i <= *depth; i++ {
		start := time.Now()
		result := search.Perft(pos, i)
		elapsed := time.Since(start)

		fmt.Printf("perft,%v,%v,%v,%v,%v,%v,%v,%v,%v,%v\n",
			*position, i, result.Nodes, result.Captures, result.EnPassants, result.Castles, result.Promotions, result.Checks, result.Mates, elapsed.Microseconds())
	}

	if *divide {
		counts := search.Divide(pos, *depth)
		for move, nodes := range counts {
			fmt.Printf("%v: %v\n", move, nodes)
		}
	}
}
