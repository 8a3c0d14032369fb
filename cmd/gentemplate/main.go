package main

import (
	"flag"
	"fmt"
	"os"

	"site-split/internal/report"
)

func main() {
	out := flag.String("o", "template.docx", "Path of the template to write")
	flag.Parse()

	if err := report.WriteTemplate(*out); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s. Set report.template to use it.\n", *out)
}
