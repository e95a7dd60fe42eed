package main

import "robo-tools/pkg/lib"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		lib.Exit(err)
	}
}
