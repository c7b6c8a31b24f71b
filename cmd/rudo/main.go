// Package main is the entry point for rudo, the animation manifest
// compiler and preview server.
package main

func main() {
	Execute()
}
