package main

import "product-media-pipeline/cmd"

func main() {
	cmd.Execute()
}
