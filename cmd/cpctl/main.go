// Command cpctl inspects and rewrites radio codeplug images.
package main

func main() {
	execute()
}
