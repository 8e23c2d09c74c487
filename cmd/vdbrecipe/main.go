package main

import "github.com/goplus/openvdb-recipe/cmd/vdbrecipe/internal"

func main() {
	internal.Execute()
}
