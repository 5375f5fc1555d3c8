// corvid is a UCI chess engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/nullmove/corvid/pkg/engine"
	"github.com/nullmove/corvid/pkg/engine/uci"
	"github.com/seekerror/logw"
)

var (
	hash   = flag.Uint("hash", 64, "Transposition table size in MB")
	numPVs = flag.Int("multipv", 1, "Default number of principal variations to report")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: corvid [options]

corvid is a UCI chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	e := engine.New(ctx, "corvid", "nullmove", engine.Options{Hash: *hash, NumPVs: *numPVs})

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		driver, out := uci.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
