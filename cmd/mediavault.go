package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/indieinfra/mediavault/config"
	"github.com/indieinfra/mediavault/server"
)

func main() {
	log.SetPrefix("mediavault: ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile | log.Lmsgprefix)

	configFile := flag.String("config", "config.yml", "Path to the configuration file (i.e., /etc/mediavault.yaml)")
	flag.Parse()

	if len(strings.Trim(*configFile, " ")) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	log.Println("loading configuration...")
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	log.Println("starting http server...")
	log.Fatal(server.StartServer(cfg))
}
