package tcpserver

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/xkmsoft/porterstemmer/pkg/engine"
)

const (
	QUERY = byte(0)
	STEM  = byte(1)
)

const (
	HeaderSize     = 5
	MaxRequestSize = 64 * 1024
	BaseIndexes    = "indexes_%s.json"
	BaseData       = "data_%s.json"
)

var ErrServerClosed = errors.New("tcpserver: server closed")

type ServerInterface interface {
	Address() string
	Signature() string
	InitializeServer(corpus string) error
	HandleRequest(connection net.Conn)
	HandleResponse(response string, connection net.Conn)
	ParseQuery(query []byte) (*QueryStruct, error)
	AcceptConnections() error
	Shutdown() error
	InitializeDataDirectory() error
}

// CorpusFiles names the dumps written for one corpus file.
type CorpusFiles struct {
	XMLFileName string
	DataDump    string
	IndexDump   string
}

type Server struct {
	Host          string
	Port          string
	Network       string
	DataDirectory string
	CleanFlag     bool
	Indexer       *engine.Indexer

	mu       sync.Mutex
	listener net.Listener
	quit     bool
}

type QueryStruct struct {
	command byte
	page    uint32
	phrase  string
}

func NewServer(host string, port string, network string, dataDirectory string, clean bool, indexer *engine.Indexer) *Server {
	return &Server{
		Host:          host,
		Port:          port,
		Network:       network,
		DataDirectory: dataDirectory,
		CleanFlag:     clean,
		Indexer:       indexer,
	}
}

func (s *Server) InitializeDataDirectory() error {
	if _, err := os.Stat(s.DataDirectory); os.IsNotExist(err) {
		return os.MkdirAll(s.DataDirectory, 0755)
	}
	if s.CleanFlag {
		files, err := os.ReadDir(s.DataDirectory)
		if err != nil {
			return err
		}
		for _, f := range files {
			if !f.IsDir() && strings.HasSuffix(f.Name(), ".json") {
				if err := os.Remove(filepath.Join(s.DataDirectory, f.Name())); err != nil {
					fmt.Printf("File %s could not deleted: %s\n", f.Name(), err.Error())
				}
			}
		}
	}
	return nil
}

func (s *Server) GetCorpusFiles(corpus string) *CorpusFiles {
	name := filepath.Base(corpus)
	name = strings.TrimSuffix(name, ".gz")
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return &CorpusFiles{
		XMLFileName: corpus,
		DataDump:    filepath.Join(s.DataDirectory, fmt.Sprintf(BaseData, name)),
		IndexDump:   filepath.Join(s.DataDirectory, fmt.Sprintf(BaseIndexes, name)),
	}
}

func (s *Server) Address() string {
	return net.JoinHostPort(s.Host, s.Port)
}

func (s *Server) Signature() string {
	return fmt.Sprintf("%s %s", s.Network, s.Address())
}

// InitializeServer loads the corpus. The JSON dumps of a previous run are
// used when present, otherwise the XML corpus is indexed and the dumps are
// written. An empty corpus starts the server with an empty index, which
// still answers STEM requests.
func (s *Server) InitializeServer(corpus string) error {
	fmt.Printf("Initializing the stemming engine and the tcpserver on %s\n", s.Signature())

	t0 := time.Now()
	defer func(t0 time.Time) {
		fmt.Printf("Initializing the server took %f seconds\n", time.Since(t0).Seconds())
	}(t0)

	if corpus == "" {
		return nil
	}
	if err := s.InitializeDataDirectory(); err != nil {
		return err
	}

	files := s.GetCorpusFiles(corpus)

	if s.Indexer.IsFileExists(files.IndexDump) && s.Indexer.IsFileExists(files.DataDump) {
		// Loading concurrently the index and data dump files
		errs := make(chan error, 2)
		go func() {
			errs <- s.Indexer.LoadIndexDump(files.IndexDump)
		}()
		go func() {
			errs <- s.Indexer.LoadDataDump(files.DataDump)
		}()
		for n := 0; n < 2; n++ {
			if err := <-errs; err != nil {
				return err
			}
		}
		return nil
	}

	if !s.Indexer.IsFileExists(files.XMLFileName) {
		return fmt.Errorf("corpus %s does not exist", files.XMLFileName)
	}
	if err := s.Indexer.LoadXMLDump(files.XMLFileName); err != nil {
		return err
	}

	// Saving concurrently the index and data dump into files
	errs := make(chan error, 2)
	go func() {
		errs <- s.Indexer.SaveIndexDump(files.IndexDump)
	}()
	go func() {
		errs <- s.Indexer.SaveDataDump(files.DataDump)
	}()
	for n := 0; n < 2; n++ {
		if err := <-errs; err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) HandleRequest(connection net.Conn) {
	request, err := io.ReadAll(io.LimitReader(connection, MaxRequestSize))
	if err != nil {
		s.HandleResponse(fmt.Sprintf("Error reading connection: %s", err.Error()), connection)
		return
	}

	queryStruct, err := s.ParseQuery(request)
	if err != nil {
		s.HandleResponse(fmt.Sprintf("Error: %s", err.Error()), connection)
		return
	}

	fmt.Printf("Command: %b Page: %d Phrase: %s\n", queryStruct.command, queryStruct.page, queryStruct.phrase)

	phrase := strings.TrimSpace(queryStruct.phrase)
	var str string
	switch queryStruct.command {
	case QUERY:
		str, err = ToJSONString(s.Indexer.Search(phrase, queryStruct.page))
	case STEM:
		str, err = ToJSONString(s.Indexer.StemText(phrase))
	}
	if err != nil {
		s.HandleResponse(fmt.Sprintf("Error: %s", err.Error()), connection)
		return
	}
	s.HandleResponse(str, connection)
}

func (s *Server) ParseQuery(query []byte) (*QueryStruct, error) {
	if len(query) < HeaderSize {
		return nil, fmt.Errorf("invalid length: %d it should be at least %d bytes", len(query), HeaderSize)
	}
	command := query[0]
	if command != QUERY && command != STEM {
		return nil, fmt.Errorf("invalid header byte %b", command)
	}
	return &QueryStruct{
		command: command,
		page:    BytesToUint32(query[1:HeaderSize]),
		phrase:  string(query[HeaderSize:]),
	}, nil
}

func (s *Server) HandleResponse(response string, connection net.Conn) {
	defer func(c net.Conn) {
		if err := c.Close(); err != nil {
			fmt.Printf("Error closing connection: %s\n", err.Error())
		}
	}(connection)

	if _, err := connection.Write([]byte(response + "\n")); err != nil {
		fmt.Printf("Error writing to the connection: %s\n", err.Error())
	}
}

// Listen binds the server address. AcceptConnections calls it when the
// server is not listening yet.
func (s *Server) Listen() error {
	listener, err := net.Listen(s.Network, s.Address())
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	return nil
}

// Addr returns the bound address, which differs from Address when the
// server listens on port 0.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) AcceptConnections() error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
		s.mu.Lock()
		listener = s.listener
		s.mu.Unlock()
	}

	fmt.Printf("Accepting connections on %s\n", s.Signature())

	for {
		con, err := listener.Accept()
		if err != nil {
			s.mu.Lock()
			quit := s.quit
			s.mu.Unlock()
			if quit {
				fmt.Printf("Server closed on %s\n", s.Signature())
				return ErrServerClosed
			}
			fmt.Printf("Error accepting connection: %s\n", err.Error())
			continue
		}
		go s.HandleRequest(con)
	}
}

func (s *Server) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quit = true
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}
