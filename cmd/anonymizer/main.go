package main

import "dicom-deid/internal/cli"

func main() {
	cli.Execute()
}
