package main

import (
	"flag"
	"log"
	"os"

	"github.com/xkmsoft/porterstemmer/pkg/config"
	"github.com/xkmsoft/porterstemmer/pkg/engine"
	"github.com/xkmsoft/porterstemmer/pkg/stemfile"
)

// stem writes every file named on the command line to stdout with its words
// replaced by their stems. Standard input is read when no file is given.
func main() {
	if err := config.LoadEnv(); err != nil {
		log.Fatal(err)
	}

	algorithm := flag.String("algorithm", config.String("PORTER_ALGORITHM", engine.AlgorithmPorter), "Stemming algorithm [porter, snowball]")
	flag.Parse()

	stemmer, err := engine.NewStemmer(*algorithm)
	if err != nil {
		log.Fatal(err)
	}

	if flag.NArg() == 0 {
		if err := stemfile.Process(os.Stdin, os.Stdout, stemmer.StemWord); err != nil {
			log.Fatal(err)
		}
		return
	}

	for _, file := range flag.Args() {
		if err := stemfile.ProcessFile(file, os.Stdout, stemmer.StemWord); err != nil {
			log.Fatalf("ERROR: Stemming %s: %s", file, err)
		}
	}
}
