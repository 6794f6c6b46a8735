package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/xkmsoft/porterstemmer/pkg/config"
	"github.com/xkmsoft/porterstemmer/pkg/engine"
	"github.com/xkmsoft/porterstemmer/pkg/tcpserver"
)

func GetAllowedNetworks(networks map[string]string) string {
	nets := make([]string, 0, len(networks))
	for n := range networks {
		nets = append(nets, n)
	}
	sort.Strings(nets)
	return strings.Join(nets, ", ")
}

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Fatal(err)
	}

	host := flag.String("host", config.String("PORTER_HOST", "localhost"), "hostname")
	port := flag.String("port", config.String("PORTER_PORT", "3333"), "port")
	network := flag.String("network", config.String("PORTER_NETWORK", "tcp"), "Network should be [tcp, tcp4, tcp6]")
	corpus := flag.String("corpus", config.String("PORTER_CORPUS", ""), "XML corpus of <doc> elements, plain or gzipped")
	configFile := flag.String("config", config.String("PORTER_CONFIG", ""), "YAML engine configuration")
	algorithm := flag.String("algorithm", config.String("PORTER_ALGORITHM", ""), "Stemming algorithm [porter, snowball]")
	clean := flag.Bool("clean", config.Bool("PORTER_CLEAN", false), "Cleans the dumps within the data directory if set")
	flag.Parse()

	allowedNetworks := map[string]string{"tcp": "", "tcp4": "", "tcp6": ""}
	if _, ok := allowedNetworks[strings.ToLower(*network)]; !ok {
		log.Fatalf("Not allowed network %s. Network should be: %s\n", strings.ToLower(*network), GetAllowedNetworks(allowedNetworks))
	}

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	if *algorithm != "" {
		if err := engine.ValidateAlgorithm(*algorithm); err != nil {
			log.Fatal(err)
		}
		cfg.Algorithm = *algorithm
	}

	indexer, err := engine.NewIndexer(cfg.IndexerOptions())
	if err != nil {
		log.Fatal(err)
	}

	tcpServer := tcpserver.NewServer(*host, *port, strings.ToLower(*network), cfg.DataDirectory, *clean, indexer)

	if err := tcpServer.InitializeServer(*corpus); err != nil {
		log.Fatal(err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		log.Println("Shutting down...")
		if err := tcpServer.Shutdown(); err != nil {
			log.Printf("Error: %v\n", err)
		}
	}()

	if err := tcpServer.AcceptConnections(); err != nil && !errors.Is(err, tcpserver.ErrServerClosed) {
		log.Fatal(err)
	}
}
