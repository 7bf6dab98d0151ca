/*
Package canvix is a layered canvas compositing library. It assembles image
layers on a fixed-size drawing surface, lets the caller reorder and filter
the layers, and exports the flattened result as an encoded image, a data URL
or a binary blob.

The package provides a command line interface for one-shot composition and a
small HTTP service for remote use. To check the supported commands type:

	$ canvix --help

In case you wish to integrate the API in a self constructed environment here
is a simple example:

	package main

	import (
		"context"
		"fmt"

		"github.com/canvix/canvix"
	)

	func main() {
		canvas, err := canvix.NewCanvas(800, 600)
		if err != nil {
			fmt.Printf("Error creating the canvas: %s", err.Error())
			return
		}

		if _, err := canvas.AddImageLayer(context.Background(), "gopher.png"); err != nil {
			fmt.Printf("Error adding the layer: %s", err.Error())
			return
		}

		url, _ := canvas.DataURL()
		fmt.Println(url)
	}
*/
package canvix
