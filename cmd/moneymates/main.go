package main

import "github.com/mmynk/moneymates/internal/cli"

func main() {
	cli.Execute()
}
