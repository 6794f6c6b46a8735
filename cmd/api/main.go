package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/xkmsoft/porterstemmer/pkg/apiserver"
	"github.com/xkmsoft/porterstemmer/pkg/config"
	"github.com/xkmsoft/porterstemmer/pkg/tcpclient"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Fatal(err)
	}

	port := flag.Int("port", config.Int("PORTER_API_PORT", 3000), "port")
	engineHost := flag.String("engine-host", config.String("PORTER_HOST", "localhost"), "engine hostname")
	enginePort := flag.String("engine-port", config.String("PORTER_PORT", "3333"), "engine port")
	engineNetwork := flag.String("engine-network", config.String("PORTER_NETWORK", "tcp"), "engine network")
	flag.Parse()

	client := tcpclient.NewTCPClient(*engineHost, *enginePort, *engineNetwork)
	router := apiserver.NewServer(client).Router()

	fmt.Printf("API listening connection on :%d\n", *port)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", *port), router))
}
