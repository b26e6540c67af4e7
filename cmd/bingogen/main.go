// Command bingogen writes a batch of cards to a .bingoCards file, or checks
// an existing file against the card layout rules.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/namsral/flag"

	"bingo-cards-backend/internal/bingo"
	"bingo-cards-backend/internal/codec"
	"bingo-cards-backend/internal/rng"
	"bingo-cards-backend/internal/upload"
)

func main() {
	var (
		count  = flag.Int("count", 10, "Number of cards to generate.")
		name   = flag.String("name", "Bingo", "Event header used for card titles and the output filename.")
		seed   = flag.Int64("seed", -1, "Seed for a reproducible batch; negative uses the system source.")
		outDir = flag.String("out_dir", ".", "Directory to write the .bingoCards file to.")
		verify = flag.String("verify", "", "Path of an existing .bingoCards file to check instead of generating.")
	)
	flag.Parse()

	if *verify != "" {
		bad, err := verifyFile(*verify)
		if err != nil {
			log.Fatalf("failed to verify %s: %v", *verify, err)
		}
		if bad > 0 {
			os.Exit(1)
		}
		return
	}

	var src rng.Source = rng.System()
	if *seed >= 0 {
		src = rng.NewLCG(uint32(*seed))
	}

	game := bingo.NewGame(bingo.GameID(*name), *count, src)
	path := filepath.Join(*outDir, codec.ExportFilename(*name, time.Now()))
	if err := os.WriteFile(path, []byte(codec.Serialize(game)), 0o644); err != nil {
		log.Fatalf("failed to write %s: %v", path, err)
	}
	fmt.Printf("wrote %d cards to %s\n", len(game.Cards), path)
}

// verifyFile reports every card in path that breaks the layout rules and
// returns how many did.
func verifyFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if err := upload.CheckStructure(string(data)); err != nil {
		return 0, err
	}

	game, err := codec.Parse(codec.GameIDFromFilename(filepath.Base(path)), string(data))
	if err != nil {
		return 0, err
	}

	bad := 0
	for _, card := range game.Cards {
		if err := bingo.Check(card.Cells); err != nil {
			fmt.Printf("card %d: %v\n", card.Number, err)
			bad++
		}
	}
	fmt.Printf("%d of %d cards ok\n", len(game.Cards)-bad, len(game.Cards))
	return bad, nil
}
