package main

import (
	"log"

	"github.com/DrewWhite51/blockchain-poc/cli"
)

func main() {
	err := cli.Run()
	if err != nil {
		log.Panic(err)
	}
}
