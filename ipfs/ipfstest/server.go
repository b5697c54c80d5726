// Package ipfstest provides an in-memory fake of the ipfs daemon HTTP API
// serving the add and cat calls.
package ipfstest

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/anyswap/iconic/cid"
)

const defaultChunkSize = 7

// Server is a fake ipfs daemon
type Server struct {
	*httptest.Server

	// ChunkSize is the size of the chunks cat responses are flushed in
	ChunkSize int

	mu      sync.Mutex
	objects map[cid.ID][]byte
	adds    int
}

// NewServer starts a fake ipfs daemon, callers should Close it
func NewServer() *Server {
	s := &Server{
		ChunkSize: defaultChunkSize,
		objects:   make(map[cid.ID][]byte),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v0/add", s.handleAdd)
	mux.HandleFunc("/api/v0/cat", s.handleCat)
	s.Server = httptest.NewServer(mux)
	return s
}

// Objects returns the number of distinct objects stored
func (s *Server) Objects() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// Adds returns the number of add calls served
func (s *Server) Adds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adds
}

// Put stores data directly, bypassing the API
func (s *Server) Put(data []byte) cid.ID {
	id, _ := cid.Sum(data)
	s.mu.Lock()
	s.objects[id] = data
	s.mu.Unlock()
	return id
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "405 - Method Not Allowed")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer file.Close()
	data, err := ioutil.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	id := s.Put(data)
	s.mu.Lock()
	s.adds++
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"Name": header.Filename,
		"Hash": id.String(),
		"Size": strconv.Itoa(len(data)),
	})
}

func (s *Server) handleCat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "405 - Method Not Allowed")
		return
	}
	id, err := cid.Parse(r.URL.Query().Get("arg"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "invalid path: "+err.Error())
		return
	}
	s.mu.Lock()
	data, exist := s.objects[id]
	s.mu.Unlock()
	if !exist {
		writeError(w, http.StatusInternalServerError, "merkledag: not found")
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	for start := 0; start < len(data); start += s.ChunkSize {
		end := start + s.ChunkSize
		if end > len(data) {
			end = len(data)
		}
		_, _ = w.Write(data[start:end])
		if flusher != nil {
			flusher.Flush()
		}
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"Message": message,
		"Code":    0,
		"Type":    "error",
	})
}
