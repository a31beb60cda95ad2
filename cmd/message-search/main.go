package main

import (
	"flag"
	"os"

	"github.com/november7/message-search/searchservice"
)

func main() {
	// Optional upstream override, handy for pointing a local instance at a fixture server.
	upstreamURL := flag.String("upstream", "", "Override MSGSEARCH_UPSTREAM_URL")
	flag.Parse()

	if *upstreamURL != "" {
		if err := os.Setenv("MSGSEARCH_UPSTREAM_URL", *upstreamURL); err != nil {
			os.Exit(1)
		}
	}

	if err := searchservice.Run(); err != nil {
		os.Exit(1)
	}
}
