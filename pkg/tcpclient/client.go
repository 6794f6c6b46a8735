package tcpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/xkmsoft/porterstemmer/pkg/engine"
)

const (
	QUERY = byte(0)
	STEM  = byte(1)
)

type ClientInterface interface {
	Query(s string, page uint32) (*engine.SearchResults, error)
	Stem(s string) (*engine.StemResult, error)
	PrepareQuery(command byte, s string, p uint32) []byte
	Address() string
}

type TCPClient struct {
	Ip      string
	Port    string
	Network string
}

func NewTCPClient(ip string, port string, network string) *TCPClient {
	return &TCPClient{
		Ip:      ip,
		Port:    port,
		Network: network,
	}
}

func (c *TCPClient) PrepareQuery(command byte, s string, p uint32) []byte {
	query := make([]byte, 0, 5+len(s))
	query = append(query, GetHeader(command)...)
	query = append(query, Uint32ToBytes(p)...)
	query = append(query, []byte(s)...)
	return query
}

func (c *TCPClient) Address() string {
	return net.JoinHostPort(c.Ip, c.Port)
}

func (c *TCPClient) Query(s string, page uint32) (*engine.SearchResults, error) {
	var searchResults engine.SearchResults
	if err := c.roundTrip(c.PrepareQuery(QUERY, s, page), &searchResults); err != nil {
		return nil, err
	}
	return &searchResults, nil
}

func (c *TCPClient) Stem(s string) (*engine.StemResult, error) {
	var stemResult engine.StemResult
	if err := c.roundTrip(c.PrepareQuery(STEM, s, 0), &stemResult); err != nil {
		return nil, err
	}
	return &stemResult, nil
}

func (c *TCPClient) roundTrip(query []byte, v interface{}) error {
	tcpAddr, err := net.ResolveTCPAddr(c.Network, c.Address())
	if err != nil {
		return err
	}

	conn, err := net.DialTCP(c.Network, nil, tcpAddr)
	if err != nil {
		return err
	}
	defer func(conn *net.TCPConn) {
		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			fmt.Printf("Error closing TCP connection: %s\n", err.Error())
		}
	}(conn)

	if _, err = conn.Write(query); err != nil {
		return err
	}
	// The server reads the request until EOF.
	if err = conn.CloseWrite(); err != nil {
		return err
	}

	var buffer bytes.Buffer
	if _, err := io.Copy(&buffer, conn); err != nil {
		return err
	}
	response := bytes.TrimSpace(buffer.Bytes())
	if bytes.HasPrefix(response, []byte("Error")) {
		return errors.New(strings.TrimPrefix(string(response), "Error: "))
	}
	return json.Unmarshal(response, v)
}
