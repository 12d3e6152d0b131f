package main

import (
	"log"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: worker atomize <networkPath> [outDir] [--svg]")
	}

	switch os.Args[1] {
	case "atomize":
		if err := RunAtomize(os.Args[2:]); err != nil {
			log.Fatalf("atomize: %v", err)
		}
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
