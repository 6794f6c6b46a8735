package engine

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring"
	xmlparser "github.com/tamerh/xml-stream-parser"
)

const (
	XmlStreamBufferSize = 1024 * 1024 * 1 // 1MB
	DocumentCapacity    = 1024
	PageSize            = 25
	DocumentElement     = "doc"
)

type Processed struct {
	Duration float64 `json:"time"`
	Unit     string  `json:"unit"`
}

type SearchResult struct {
	Url      string  `json:"url"`
	Rank     float64 `json:"rank"`
	Title    string  `json:"title"`
	Abstract string  `json:"abstract"`
}

type SearchResults struct {
	Processed       Processed      `json:"processed"`
	NumberOfResults int            `json:"number_of_results"`
	CurrentPage     int            `json:"current_page"`
	NumberOfPages   int            `json:"number_of_pages"`
	Stems           []string       `json:"stems"`
	Results         []SearchResult `json:"results"`
}

// StemResult pairs every analyzed token of a phrase with its stem.
type StemResult struct {
	Algorithm string   `json:"algorithm"`
	Tokens    []string `json:"tokens"`
	Stems     []string `json:"stems"`
}

type Document struct {
	Index    uint32 `xml:"index" json:"index"`
	Title    string `xml:"title" json:"title"`
	Url      string `xml:"url" json:"url"`
	Abstract string `xml:"abstract" json:"abstract"`
}

type IndexerInterface interface {
	LoadXMLDump(path string) error
	LoadIndexDump(path string) error
	LoadDataDump(path string) error
	SaveIndexDump(path string) error
	SaveDataDump(path string) error
	IsFileExists(path string) bool
	Analyze(s string) []string
	StemText(s string) StemResult
	AddDocuments(documents []Document)
	Search(s string, page uint32) SearchResults
}

type Indexer struct {
	Data       map[uint32]Document
	Indexes    map[string]*roaring.Bitmap
	Tokenizer  *Tokenizer
	Filterer   *Filterer
	Stemmer    *Stemmer
	Mutex      sync.RWMutex
	Cores      int
	Multiplier int
	PageSize   int
}

type IndexerOptions struct {
	Algorithm  string
	StopWords  []string
	Multiplier int
	PageSize   int
}

func NewIndexer(opts IndexerOptions) (*Indexer, error) {
	stemmer, err := NewStemmer(opts.Algorithm)
	if err != nil {
		return nil, err
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = 2
	}
	if opts.PageSize <= 0 {
		opts.PageSize = PageSize
	}
	return &Indexer{
		Data:       map[uint32]Document{},
		Indexes:    map[string]*roaring.Bitmap{},
		Tokenizer:  NewTokenizer(),
		Filterer:   NewFilterer(opts.StopWords...),
		Stemmer:    stemmer,
		Cores:      runtime.NumCPU(),
		Multiplier: opts.Multiplier,
		PageSize:   opts.PageSize,
	}, nil
}

func openDump(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	r, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return struct {
		io.Reader
		io.Closer
	}{r, f}, nil
}

func childText(element *xmlparser.XMLElement, name string) string {
	if children, ok := element.Childs[name]; ok && len(children) > 0 {
		return strings.TrimSpace(children[0].InnerText)
	}
	return ""
}

// LoadXMLDump parses every <doc> element of path, a plain or gzipped XML
// file, and indexes the documents.
func (i *Indexer) LoadXMLDump(path string) error {
	t0 := time.Now()
	defer func(t0 time.Time) {
		fmt.Printf("Loading %s took %f seconds\n", path, time.Since(t0).Seconds())
	}(t0)

	f, err := openDump(path)
	if err != nil {
		return err
	}
	defer func(f io.Closer) {
		if err := f.Close(); err != nil {
			fmt.Printf("Closing xml file failed: %s\n", err.Error())
		}
	}(f)

	buffer := bufio.NewReaderSize(f, XmlStreamBufferSize)
	parser := xmlparser.NewXMLParser(buffer, DocumentElement)
	documents := make([]Document, 0, DocumentCapacity)

	i.Mutex.RLock()
	index := uint32(len(i.Data))
	i.Mutex.RUnlock()

	for element := range parser.Stream() {
		if element.Err != nil {
			return fmt.Errorf("parsing %s: %w", path, element.Err)
		}
		if element.Name != DocumentElement {
			continue
		}
		documents = append(documents, Document{
			Index:    index,
			Title:    childText(element, "title"),
			Url:      childText(element, "url"),
			Abstract: childText(element, "abstract"),
		})
		index++
	}
	fmt.Printf("There are %d documents in the file %s\n", len(documents), path)

	i.AddDocuments(documents)
	return nil
}

// AddDocuments stores the documents and indexes them concurrently.
func (i *Indexer) AddDocuments(documents []Document) {
	if len(documents) == 0 {
		return
	}
	t0 := time.Now()

	i.Mutex.Lock()
	for _, doc := range documents {
		i.Data[doc.Index] = doc
	}
	i.Mutex.Unlock()

	var wg sync.WaitGroup
	numberOfDocuments := len(documents)
	workers := i.Cores * i.Multiplier
	chunkSize := (numberOfDocuments + workers - 1) / workers

	for start := 0; start < numberOfDocuments; start += chunkSize {
		end := start + chunkSize
		if end > numberOfDocuments {
			end = numberOfDocuments
		}
		wg.Add(1)
		go i.addIndexesAsync(documents[start:end], &wg)
	}
	wg.Wait()
	fmt.Printf("Indexing %d documents took %f seconds\n", numberOfDocuments, time.Since(t0).Seconds())
}

func (i *Indexer) addIndexesAsync(documents []Document, wg *sync.WaitGroup) {
	defer wg.Done()
	for _, doc := range documents {
		tokens := i.Analyze(fmt.Sprintf("%s %s", doc.Title, doc.Abstract))
		i.AddIndex(tokens, doc.Index)
	}
}

func (i *Indexer) AddIndex(tokens []string, index uint32) {
	i.Mutex.Lock()
	defer i.Mutex.Unlock()
	for _, token := range tokens {
		if indexes, exists := i.Indexes[token]; exists {
			indexes.Add(index)
		} else {
			i.Indexes[token] = roaring.BitmapOf(index)
		}
	}
}

func (i *Indexer) Analyze(s string) []string {
	tokens := i.Tokenizer.Tokenize(s)
	tokens = i.Filterer.Fold(tokens)
	tokens = i.Filterer.Lowercase(tokens)
	tokens = i.Filterer.RemoveStopWords(tokens)
	return i.Stemmer.Stem(tokens)
}

// StemText stems every token of s. Unlike Analyze it keeps stop words, so
// the result reads as the phrase did.
func (i *Indexer) StemText(s string) StemResult {
	tokens := i.Tokenizer.Tokenize(s)
	tokens = i.Filterer.Fold(tokens)
	tokens = i.Filterer.Lowercase(tokens)
	return StemResult{
		Algorithm: i.Stemmer.Algorithm,
		Tokens:    tokens,
		Stems:     i.Stemmer.Stem(tokens),
	}
}

// Search returns the documents holding every stem of s.
func (i *Indexer) Search(s string, page uint32) SearchResults {
	t0 := time.Now()

	tokens := i.Analyze(s)
	searchResults := make([]SearchResult, 0)

	i.Mutex.RLock()
	bitmaps := make([]*roaring.Bitmap, 0, len(tokens))
	for _, token := range tokens {
		indexes, exists := i.Indexes[token]
		if !exists {
			bitmaps = nil
			break
		}
		bitmaps = append(bitmaps, indexes)
	}

	if len(bitmaps) > 0 {
		rb := roaring.ParAnd(i.Cores, bitmaps...)
		for _, index := range rb.ToArray() {
			if doc, ok := i.Data[index]; ok {
				searchResults = append(searchResults, SearchResult{
					Url:      doc.Url,
					Rank:     1,
					Title:    doc.Title,
					Abstract: doc.Abstract,
				})
			}
		}
	}
	i.Mutex.RUnlock()

	numberOfPages := GetNumberOfPages(len(searchResults), i.PageSize)
	currentPage := ClampPage(int(page), numberOfPages)
	paginationResults := SliceSearchResults(searchResults, currentPage, i.PageSize)

	var duration float64
	elapsed := time.Since(t0)
	if elapsed.Microseconds() > 1000 {
		duration = float64(elapsed.Milliseconds())
	} else {
		duration = float64(elapsed.Microseconds()) / 1000.0
	}

	fmt.Printf("%d results returned out of (%d documents) in %f milliseconds for phrase: %s\n", len(paginationResults), len(searchResults), duration, s)
	return SearchResults{
		Processed: Processed{
			Duration: duration,
			Unit:     "milliseconds",
		},
		NumberOfResults: len(searchResults),
		CurrentPage:     currentPage,
		NumberOfPages:   numberOfPages,
		Stems:           tokens,
		Results:         paginationResults,
	}
}

func (i *Indexer) IsFileExists(path string) bool {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false
	}
	return true
}

func (i *Indexer) LoadIndexDump(path string) error {
	t0 := time.Now()
	defer func(t0 time.Time) {
		fmt.Printf("Loading indexes dump took %f seconds\n", time.Since(t0).Seconds())
	}(t0)

	bytes, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var indexes map[string][]uint32
	if err = json.Unmarshal(bytes, &indexes); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	i.Mutex.Lock()
	defer i.Mutex.Unlock()
	for token, idx := range indexes {
		i.Indexes[token] = roaring.BitmapOf(idx...)
	}
	return nil
}

func (i *Indexer) LoadDataDump(path string) error {
	t0 := time.Now()
	defer func(t0 time.Time) {
		fmt.Printf("Loading data dump took %f seconds\n", time.Since(t0).Seconds())
	}(t0)

	bytes, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var data map[uint32]Document
	if err = json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	i.Mutex.Lock()
	i.Data = data
	i.Mutex.Unlock()
	return nil
}

func (i *Indexer) SaveIndexDump(path string) error {
	t0 := time.Now()
	defer func(t0 time.Time) {
		fmt.Printf("Saving indexes dump into the file took %f seconds\n", time.Since(t0).Seconds())
	}(t0)

	i.Mutex.RLock()
	indexes := make(map[string][]uint32, len(i.Indexes))
	for token, idx := range i.Indexes {
		indexes[token] = idx.ToArray()
	}
	i.Mutex.RUnlock()

	bytes, err := json.Marshal(&indexes)
	if err != nil {
		return err
	}
	return os.WriteFile(path, bytes, 0644)
}

func (i *Indexer) SaveDataDump(path string) error {
	t0 := time.Now()
	defer func(t0 time.Time) {
		fmt.Printf("Saving data dump into the file took %f seconds\n", time.Since(t0).Seconds())
	}(t0)

	i.Mutex.RLock()
	bytes, err := json.Marshal(&i.Data)
	i.Mutex.RUnlock()
	if err != nil {
		return err
	}
	return os.WriteFile(path, bytes, 0644)
}
